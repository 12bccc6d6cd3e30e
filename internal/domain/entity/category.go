package entity

// UncategorizedName is shown for transactions whose category cannot be resolved.
const UncategorizedName = "Sin categoría"

// Category represents a transaction category owned by the remote account.
type Category struct {
	ID   ID
	Name string
	Type TransactionType
}
