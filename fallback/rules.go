package fallback

// DefaultRules lists the built-in keyword categories in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "anxiety",
			Keywords: []string{"anxious", "anxiety", "worried"},
			Reply: "I notice you mentioned feeling anxious. Anxiety is a natural response to stress, " +
				"but it can be overwhelming. Would you like to try a quick breathing exercise that might help? " +
				"Or would you prefer to talk more about what's causing your anxiety?",
		},
		{
			Name:     "sadness",
			Keywords: []string{"sad", "depressed", "unhappy"},
			Reply: "I'm sorry to hear you're feeling down. Many people experience sadness, and it's " +
				"completely valid to feel this way. Would you like to explore some gentle activities that " +
				"might lift your mood, or would you prefer to talk more about these feelings?",
		},
		{
			Name:     "positive",
			Keywords: []string{"happy", "good", "great"},
			Reply: "I'm glad to hear you're feeling positive! What's contributing to your good mood today? " +
				"Recognizing what brings us joy can be helpful when we face challenging times.",
		},
		{
			Name:     "fatigue",
			Keywords: []string{"tired", "exhausted", "drained", "fatigue"},
			Reply: "Feeling tired can weigh on everything else. Have you been able to rest lately? " +
				"Sometimes even a short pause or an earlier night can make the next day feel lighter.",
		},
		{
			Name:     "stress",
			Keywords: []string{"stressed", "overwhelmed", "pressure", "burnout"},
			Reply: "It sounds like a lot is resting on your shoulders right now. When everything feels " +
				"urgent, picking one small thing to finish first can help. What feels most pressing to you?",
		},
		{
			Name:     "gratitude",
			Keywords: []string{"thank", "grateful", "appreciate"},
			Reply: "You're very welcome. I'm glad I could be here with you today. " +
				"Is there anything else on your mind you'd like to talk through?",
		},
	}
}

// DefaultGenericPool returns the replies used when no category matches.
func DefaultGenericPool() []string {
	return []string{
		"Thank you for sharing that with me. Could you tell me more about how that makes you feel?",
		"I appreciate you opening up. In what ways has this been affecting your daily life?",
		"That sounds significant. How long have you been experiencing this?",
		"I'm here to listen. What do you think might help you navigate this situation?",
	}
}
