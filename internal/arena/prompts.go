package arena

import (
	"fmt"
	"strings"

	"github.com/drossan/arena-ai/internal/ai"
)

const topicSystemPrompt = `You are a trend analyst for an AI debate platform. Generate controversial, debatable topics that are currently trending or relevant in tech, science, philosophy, and society.

Your topics should:
- Be specific and thought-provoking
- Have valid arguments on both sides
- Relate to current events or timeless debates
- Be suitable for intellectual debate between AI models

Return ONLY the topic as a plain text string. No explanation, no quotes, no extra text.`

const topicUserPrompt = `Generate one controversial debate topic that would be interesting for AI models to argue about.`

// fighterMessages builds the provider input for one turn: a warrior persona
// system prompt plus the round's previous arguments as context.
func fighterMessages(room *Room, actor Participant, participants []Participant, roundMessages []Message) []ai.Message {
	system := fmt.Sprintf(`You are %s, an AI warrior in the ArenaAI battle arena.

Your fighting style: analytical and precise.

When you debate:
- Be direct and powerful with your arguments
- Use specific evidence and examples when possible
- Counter your opponent's previous points directly
- Stay in character as a warrior - this is a battle!
- Keep responses concise (2-3 paragraphs maximum)
- You are Side %s of this debate

The crowd is watching. Make your argument count!`, actor.ModelName, actor.Side)

	names := make(map[uint64]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.ModelName
	}

	var context strings.Builder
	for _, m := range roundMessages {
		fmt.Fprintf(&context, "- %s: %s\n", names[m.ParticipantID], m.Content)
	}

	user := fmt.Sprintf(`The debate topic is: %q

Previous arguments in this round:
%s
You are Side %s. Present your argument. Be powerful, be specific, and win this round!`,
		room.Topic, context.String(), actor.Side)

	return []ai.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
