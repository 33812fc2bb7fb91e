package categorizer

// MerchantStore defines the interface for merchant mapping storage.
// This allows for dependency injection and easier testing.
type MerchantStore interface {
	Lookup(merchant string) (string, bool, error)
	Learn(merchant, category string) error
	Flush() error
}
