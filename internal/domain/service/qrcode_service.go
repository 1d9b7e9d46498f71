package service

// QRCodeService defines the interface for QR code generation.
type QRCodeService interface {
	// GenerateTrackingQR renders the given tracking URL as a PNG QR code.
	GenerateTrackingQR(trackingURL string) ([]byte, error)
}
