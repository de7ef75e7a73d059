package telegram

import "github.com/set-night/swifthub/internal/domain"

// TextKey names a localized string of the bot interface.
type TextKey int

const (
	TextLanguagePrompt TextKey = iota
	TextLanguageSaved
	TextPleaseWait
	TextTooManyRequests
	TextConversationEnded
	TextModelsHeader
	TextModelsUnavailable
	TextCurrentModel
	TextTextOnly
	TextHelp
	TextStats
)

var texts = map[TextKey]map[domain.Language]string{
	TextLanguagePrompt: {
		// Shown before any preference exists, so both languages.
		domain.LanguageArabic: "🌐 اختر لغتك / Choisissez votre langue",
		domain.LanguageFrench: "🌐 Choisissez votre langue / اختر لغتك",
	},
	TextLanguageSaved: {
		domain.LanguageArabic: "✅ تم حفظ اللغة: العربية",
		domain.LanguageFrench: "✅ Langue enregistrée : Français",
	},
	TextPleaseWait: {
		domain.LanguageArabic: "⏳ ما زلت أرد على رسالتك السابقة، يرجى الانتظار.",
		domain.LanguageFrench: "⏳ Je réponds encore à votre message précédent, merci de patienter.",
	},
	TextTooManyRequests: {
		domain.LanguageArabic: "⏳ رسائل كثيرة جدًا. يرجى الانتظار قليلاً.",
		domain.LanguageFrench: "⏳ Trop de messages. Veuillez patienter un instant.",
	},
	TextConversationEnded: {
		domain.LanguageArabic: "🔄 انتهت المحادثة. تم بدء محادثة جديدة.",
		domain.LanguageFrench: "🔄 Conversation terminée. Une nouvelle conversation commence.",
	},
	TextModelsHeader: {
		domain.LanguageArabic: "🤖 *النماذج المتاحة*",
		domain.LanguageFrench: "🤖 *Modèles disponibles*",
	},
	TextModelsUnavailable: {
		domain.LanguageArabic: "تعذر تحميل قائمة النماذج.",
		domain.LanguageFrench: "Impossible de charger la liste des modèles.",
	},
	TextCurrentModel: {
		domain.LanguageArabic: "(الحالي)",
		domain.LanguageFrench: "(actuel)",
	},
	TextTextOnly: {
		domain.LanguageArabic: "أفهم الرسائل النصية فقط.",
		domain.LanguageFrench: "Je ne comprends que les messages texte.",
	},
	TextHelp: {
		domain.LanguageArabic: "الأوامر:\n/start - محادثة جديدة\n/language - تغيير اللغة\n/end - إنهاء المحادثة\n/models - النماذج المتاحة\n/help - المساعدة",
		domain.LanguageFrench: "Commandes :\n/start - nouvelle conversation\n/language - changer de langue\n/end - terminer la conversation\n/models - modèles disponibles\n/help - aide",
	},
	TextStats: {
		domain.LanguageArabic: "📊 *الإحصائيات*",
		domain.LanguageFrench: "📊 *Statistiques*",
	},
}

// Text returns the string for key in lang, French when lang is unset.
func Text(key TextKey, lang domain.Language) string {
	byLang, ok := texts[key]
	if !ok {
		return ""
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[domain.LanguageFrench]
}
