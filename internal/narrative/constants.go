package narrative

// Defaults for narrative generation. Config may override them.
const (
	// DefaultModelName is the Gemini model used for summaries.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultTemperature keeps the prose close to the numbers.
	DefaultTemperature float32 = 0.3

	// DefaultCurrencySymbol prefixes monetary totals in the prompt.
	DefaultCurrencySymbol = "₹"
)
