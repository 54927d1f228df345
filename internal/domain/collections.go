package domain

// Named collections of the record store. New collections can be added here
// without touching existing data; buckets are created on first use.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
)
