package tutor

// Config holds reply and feedback generation settings.
type Config struct {
	// Temperature applies to conversation replies.
	Temperature float64

	ReplyMaxTokens    int
	FeedbackMaxTokens int
}

// DefaultConfig returns the settings the service was first tuned with.
func DefaultConfig() Config {
	return Config{
		Temperature:       0.5,
		ReplyMaxTokens:    256,
		FeedbackMaxTokens: 2048,
	}
}
