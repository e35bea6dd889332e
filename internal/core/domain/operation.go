package domain

// Operation identifies the direction of a balance mutation.
type Operation string

const (
	OperationDeposit  Operation = "DEPOSIT"
	OperationWithdraw Operation = "WITHDRAW"
)

// Valid reports whether the operation type is known.
func (o Operation) Valid() bool {
	return o == OperationDeposit || o == OperationWithdraw
}
