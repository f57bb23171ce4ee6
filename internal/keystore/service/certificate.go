package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"
)

const certificateValidity = 365 * 24 * time.Hour

// selfSignedSubject is the distinguished name of every self-signed entry.
var selfSignedSubject = pkix.Name{
	CommonName:         "hadoop",
	OrganizationalUnit: []string{"Test"},
	Organization:       []string{"Hadoop"},
	Locality:           []string{"Test"},
	Province:           []string{"Test"},
	Country:            []string{"US"},
}

// randomSerialNumber returns a positive 128-bit serial number.
func randomSerialNumber() (*big.Int, error) {
	serialBytes := make([]byte, 16)
	if _, err := rand.Read(serialBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random serial: %w", err)
	}
	serialBytes[0] &= 0x7F
	return new(big.Int).SetBytes(serialBytes), nil
}

// generateSelfSignedCert creates an ECDSA P-256 key and a certificate for it
// signed by itself with ECDSA-SHA256, valid for one year from now.
func generateSelfSignedCert(now time.Time) ([]byte, *ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key: %w", err)
	}

	serial, err := randomSerialNumber()
	if err != nil {
		return nil, nil, err
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               selfSignedSubject,
		NotBefore:             now,
		NotAfter:              now.Add(certificateValidity),
		SignatureAlgorithm:    x509.ECDSAWithSHA256,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return der, key, nil
}
