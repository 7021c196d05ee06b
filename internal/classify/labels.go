package classify

import "fmt"

// ExecutionType is the payment channel inferred from a transaction description.
type ExecutionType int

const (
	UPI ExecutionType = iota
	NEFT
	RTGS
	IMPS
	CashDeposit
	CardPOS
	Other
)

// NumExecutionTypes is the size of the ExecutionType label set.
const NumExecutionTypes = int(Other) + 1

var executionTypeNames = [...]string{
	UPI:         "UPI",
	NEFT:        "NEFT",
	RTGS:        "RTGS",
	IMPS:        "IMPS",
	CashDeposit: "Cash/Deposit",
	CardPOS:     "Card/POS",
	Other:       "Other",
}

// ExecutionTypes lists every execution type in priority order.
var ExecutionTypes = []ExecutionType{UPI, NEFT, RTGS, IMPS, CashDeposit, CardPOS, Other}

func (t ExecutionType) String() string {
	if t < 0 || int(t) >= len(executionTypeNames) {
		return fmt.Sprintf("ExecutionType(%d)", int(t))
	}
	return executionTypeNames[t]
}

// MarshalText implements encoding.TextMarshaler so the label can be used as a JSON map key.
func (t ExecutionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AmountBucket is the magnitude range of a transaction amount.
type AmountBucket int

const (
	Small AmountBucket = iota
	Medium
	Large
	Significant
	// Unknown marks rows whose amount could not be read as a number.
	Unknown
)

// NumAmountBuckets is the size of the AmountBucket label set, Unknown included.
const NumAmountBuckets = int(Unknown) + 1

var amountBucketNames = [...]string{
	Small:       "Small",
	Medium:      "Medium",
	Large:       "Large",
	Significant: "Significant",
	Unknown:     "Unknown",
}

// AmountBuckets lists every bucket from smallest to largest, Unknown last.
var AmountBuckets = []AmountBucket{Small, Medium, Large, Significant, Unknown}

func (b AmountBucket) String() string {
	if b < 0 || int(b) >= len(amountBucketNames) {
		return fmt.Sprintf("AmountBucket(%d)", int(b))
	}
	return amountBucketNames[b]
}

// MarshalText implements encoding.TextMarshaler.
func (b AmountBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
