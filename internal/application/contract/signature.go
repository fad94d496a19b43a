package contract

import (
	"bytes"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
)

const (
	maxSignatureBytes = 2 << 20
	maxSignerNameLen  = 200
	pngDataURIPrefix  = "data:image/png;base64,"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// signInput entrada de firma ya validada.
type signInput struct {
	image      []byte
	signerName string
}

// validateSignInput valida en orden firma, nombre y consentimiento y devuelve
// el primer requisito que falte como *domain.ValidationError.
func validateSignInput(in dto.SignContractRequest) (signInput, error) {
	if strings.TrimSpace(in.Signature) == "" {
		return signInput{}, domain.NewValidationError("signature", "la firma es requerida")
	}
	img, err := decodeSignatureImage(in.Signature)
	if err != nil {
		return signInput{}, err
	}
	name := normalizeSignerName(in.SignerName)
	if name == "" {
		return signInput{}, domain.NewValidationError("signer_name", "el nombre del firmante es requerido")
	}
	if utf8.RuneCountInString(name) > maxSignerNameLen {
		return signInput{}, domain.NewValidationError("signer_name", "el nombre del firmante es demasiado largo")
	}
	if !in.AgreedToTerms {
		return signInput{}, domain.NewValidationError("agreed_to_terms", "debe aceptar los términos")
	}
	return signInput{image: img, signerName: name}, nil
}

// decodeSignatureImage acepta un data-URI PNG (o base64 pelado) y verifica la cabecera PNG.
func decodeSignatureImage(raw string) ([]byte, error) {
	payload := strings.TrimSpace(raw)
	if len(payload) >= len(pngDataURIPrefix) && strings.EqualFold(payload[:len(pngDataURIPrefix)], pngDataURIPrefix) {
		payload = payload[len(pngDataURIPrefix):]
	} else if strings.HasPrefix(payload, "data:") {
		return nil, domain.NewValidationError("signature", "la firma debe ser una imagen PNG")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxSignatureBytes {
		return nil, domain.NewValidationError("signature", "la imagen de la firma es demasiado grande")
	}
	img, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.NewValidationError("signature", "la firma no es base64 válido")
	}
	if !bytes.HasPrefix(img, pngMagic) {
		return nil, domain.NewValidationError("signature", "la firma debe ser una imagen PNG")
	}
	return img, nil
}

// normalizeSignerName recorta, colapsa espacios y normaliza a NFC.
func normalizeSignerName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
