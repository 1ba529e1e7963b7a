package generator

import "context"

const fallbackResponse = `[INSTAGRAM]
📸 Check out this amazing content! Perfect for your feed. #ContentCreation #SocialMedia

[TWITTER]
1. 🚀 Exciting new content alert! Here's what you need to know...
2. 💡 Pro tip: Repurpose your content across platforms for maximum reach
3. 🎯 Want to learn more? Check out our full guide!

[LINKEDIN]
🔍 Professional insight: Content repurposing is key to maximizing your digital presence. Here's how we can help you achieve better engagement across all platforms...`

// FallbackLLM returns the same canned response for every request and never
// touches the network. Used for local development.
type FallbackLLM struct{}

func (FallbackLLM) Complete(_ context.Context, _ Request) (string, error) {
	return fallbackResponse, nil
}
