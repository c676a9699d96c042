package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the MySQL database or dies. DSN example:
// app:apppass@tcp(127.0.0.1:3306)/arena_ai?charset=utf8mb4&parseTime=true&loc=Local
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	return gdb
}
