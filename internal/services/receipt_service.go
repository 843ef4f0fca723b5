package services

import (
	"encoding/base64"
	"fmt"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/token"
)

// QRCodeGenerator, makbuz QR görselini üretir.
type QRCodeGenerator interface {
	Generate(data string) ([]byte, error)
}

// DefaultQRCodeGenerator, PNG QR kodu üretir.
type DefaultQRCodeGenerator struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func (g *DefaultQRCodeGenerator) Generate(data string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(data, g.Level, size)
}

// Receipt, başarılı başvurunun onay makbuzu.
type Receipt struct {
	FormNo           int64  `json:"form_no"`
	VerificationCode string `json:"verification_code"`
	Payload          string `json:"payload"`
	QRCode           string `json:"qr_code"` // data:image/png;base64,...
}

// ReceiptService, form numarası ve CNIC'e bağlı imzalı doğrulama kodu ile
// QR makbuz üretir. Kod saklanmaz; her seferinde yeniden hesaplanır.
type ReceiptService struct {
	qr     QRCodeGenerator
	signer *token.Signer
}

func NewReceiptService(secret string) *ReceiptService {
	return NewReceiptServiceWithQRGenerator(secret, &DefaultQRCodeGenerator{Size: 256, Level: qrcode.Medium})
}

func NewReceiptServiceWithQRGenerator(secret string, qr QRCodeGenerator) *ReceiptService {
	return &ReceiptService{qr: qr, signer: token.NewSigner(secret, 10)}
}

func (s *ReceiptService) code(form *models.AdmissionForm) string {
	return s.signer.Sign(strconv.FormatInt(form.ID, 10), form.CNIC, strconv.FormatInt(form.ProgramID, 10))
}

// Issue, form için makbuz üretir. QR içeriğinde CNIC maskelenir.
func (s *ReceiptService) Issue(form *models.AdmissionForm) (*Receipt, error) {
	code := s.code(form)
	payload := fmt.Sprintf("ADMISSION:%d|CNIC:%s|PROGRAM:%d|CODE:%s", form.ID, MaskCNIC(form.CNIC), form.ProgramID, code)

	png, err := s.qr.Generate(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt QR code: %w", err)
	}

	return &Receipt{
		FormNo:           form.ID,
		VerificationCode: code,
		Payload:          payload,
		QRCode:           "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Verify, makbuzdaki kodun forma ait olup olmadığını kontrol eder.
func (s *ReceiptService) Verify(form *models.AdmissionForm, code string) bool {
	return s.signer.Verify(code, strconv.FormatInt(form.ID, 10), form.CNIC, strconv.FormatInt(form.ProgramID, 10))
}
