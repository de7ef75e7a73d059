package service

import "github.com/set-night/swifthub/internal/domain"

var greetings = map[domain.Language]string{
	domain.LanguageArabic: "مرحبا! مرحبا بكم في دعم سويفت ديليفري هب. كيف يمكنني مساعدتكم اليوم؟",
	domain.LanguageFrench: "Bonjour ! Bienvenue au support de Swift Delivery Hub. Comment puis-je vous aider aujourd'hui ?",
}

var fallbacks = map[domain.Language]string{
	domain.LanguageArabic: "عذرًا، حدث خطأ أثناء معالجة طلبك. يرجى المحاولة مرة أخرى لاحقًا.",
	domain.LanguageFrench: "Désolé, une erreur s'est produite lors du traitement de votre demande. Veuillez réessayer plus tard.",
}

// Greeting returns the assistant message every conversation starts with.
func Greeting(lang domain.Language) string {
	if lang == domain.LanguageArabic {
		return greetings[domain.LanguageArabic]
	}
	return greetings[domain.LanguageFrench]
}

// FallbackText is the apology shown when the completion call fails.
func FallbackText(lang domain.Language) string {
	if lang == domain.LanguageArabic {
		return fallbacks[domain.LanguageArabic]
	}
	return fallbacks[domain.LanguageFrench]
}

const defaultSystemPrompt = `You are a helpful customer support assistant for Swift Delivery Hub, a delivery service in Morocco.
Provide helpful, friendly responses about delivery services, order tracking, pricing, driver registration,
and other related topics. Respond in the same language as the user's message.
Be concise but informative. If you don't know specific information, acknowledge that and suggest
contacting human support for detailed inquiries.`
