package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	"domly/pkg/config"
)

// TLSSettings is the TLS part of the configuration.
type TLSSettings struct {
	EnableTLS       bool
	CertPath        string
	KeyPath         string
	CertPEM         string
	KeyPEM          string
	Env             string
	AllowSelfSigned bool
}

func TLSSettingsFrom(cfg *config.Config) TLSSettings {
	return TLSSettings{
		EnableTLS:       cfg.EnableTLS,
		CertPath:        cfg.TLSCertPath,
		KeyPath:         cfg.TLSKeyPath,
		CertPEM:         cfg.TLSCertPEM,
		KeyPEM:          cfg.TLSKeyPEM,
		Env:             cfg.AppEnv,
		AllowSelfSigned: cfg.TLSSelfSigned,
	}
}

// Validate ensures TLS settings are safe for the selected environment.
func (s TLSSettings) Validate() error {
	if s.Env == "production" {
		if !s.EnableTLS {
			return fmt.Errorf("TLS must be enabled in production")
		}
		if s.CertPath == "" || s.KeyPath == "" {
			return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	return nil
}

// BuildTLSConfig prefers certificate files, then inline PEM, then a self-signed
// certificate outside production.
func (s TLSSettings) BuildTLSConfig() (*tls.Config, error) {
	var cert tls.Certificate
	var err error
	switch {
	case s.CertPath != "" && s.KeyPath != "":
		cert, err = tls.LoadX509KeyPair(s.CertPath, s.KeyPath)
	case s.CertPEM != "" && s.KeyPEM != "":
		cert, err = tls.X509KeyPair([]byte(s.CertPEM), []byte(s.KeyPEM))
	case s.Env != "production" && s.AllowSelfSigned:
		cert, err = generateSelfSignedCert()
	default:
		return nil, fmt.Errorf("no TLS certificates available")
	}
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

// generateSelfSignedCert creates a certificate for localhost.
func generateSelfSignedCert() (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}
	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}

	tmpl := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: "localhost", Organization: []string{"Domly"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		BasicConstraintsValid: true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})
	return tls.X509KeyPair(certPEM, keyPEM)
}
