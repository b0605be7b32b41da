package core

import "time"

// SeedTools returns the pre-seeded system catalog: the tools every visitor
// sees before signing in. IDs are stable so a storage adapter can upsert
// the catalog idempotently.
func SeedTools() []*Tool {
	now := time.Now()
	seed := []Tool{
		{ID: "sys-chatgpt", Name: "ChatGPT", URL: "https://chat.openai.com", Description: "Conversational assistant by OpenAI", Category: CategoryChat, IsFree: true},
		{ID: "sys-claude", Name: "Claude", URL: "https://claude.ai", Description: "Conversational assistant by Anthropic", Category: CategoryChat, IsFree: true},
		{ID: "sys-kimi", Name: "Kimi", URL: "https://kimi.moonshot.cn", Description: "Long-context chat assistant by Moonshot", Category: CategoryChat, IsFree: true, IsChinese: true},
		{ID: "sys-midjourney", Name: "Midjourney", URL: "https://midjourney.com", Description: "Image generation from text prompts", Category: CategoryImage},
		{ID: "sys-dalle", Name: "DALL-E", URL: "https://openai.com/dall-e", Description: "Image generation by OpenAI", Category: CategoryImage},
		{ID: "sys-runway", Name: "Runway", URL: "https://runwayml.com", Description: "Video generation and editing suite", Category: CategoryVideo},
		{ID: "sys-pika", Name: "Pika", URL: "https://pika.art", Description: "Short-form video generation", Category: CategoryVideo, IsFree: true},
		{ID: "sys-jasper", Name: "Jasper", URL: "https://jasper.ai", Description: "Marketing copywriting assistant", Category: CategoryWriting},
		{ID: "sys-grammarly", Name: "Grammarly", URL: "https://grammarly.com", Description: "Writing correction and rewriting", Category: CategoryWriting, IsFree: true},
		{ID: "sys-copilot", Name: "GitHub Copilot", URL: "https://github.com/features/copilot", Description: "Code completion in the editor", Category: CategoryCoding},
		{ID: "sys-cursor", Name: "Cursor", URL: "https://cursor.com", Description: "AI-first code editor", Category: CategoryCoding},
		{ID: "sys-elevenlabs", Name: "ElevenLabs", URL: "https://elevenlabs.io", Description: "Voice synthesis and cloning", Category: CategoryAudio},
		{ID: "sys-suno", Name: "Suno", URL: "https://suno.com", Description: "Music generation from text", Category: CategoryAudio, IsFree: true},
	}

	tools := make([]*Tool, len(seed))
	for i := range seed {
		t := seed[i]
		t.CreatedAt = now
		t.UpdatedAt = now
		tools[i] = &t
	}
	return tools
}
