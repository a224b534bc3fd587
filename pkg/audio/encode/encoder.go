// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all sample packers
package encode

// Encoder packs int32 samples in 24-bit range into output bytes
type Encoder interface {
	// Encode converts samples to the encoder's byte layout
	Encode(samples []int32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
