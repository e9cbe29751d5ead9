// Package tlsutil loads TLS credentials for the gRPC listener.
package tlsutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc/credentials"
)

// ServerTLSConfig loads TLS credentials for a gRPC server from cert and key files.
func ServerTLSConfig(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// ClientTLSConfig returns client credentials trusting the PEM certificate in
// caFile.
func ClientTLSConfig(caFile string) (credentials.TransportCredentials, error) {
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("tlsutil: failed to parse CA certificate from %s", caFile)
	}

	return credentials.NewTLS(&tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}), nil
}

// SelfSignedFiles are the paths written by GenerateSelfSignedCert.
type SelfSignedFiles struct {
	CertFile string
	KeyFile  string
}

// GenerateSelfSignedCert writes a self-signed server certificate valid for
// hosts into outDir as cert.pem and key.pem. The certificate is its own CA,
// so clients can trust CertFile directly.
func GenerateSelfSignedCert(hosts []string, outDir string) (SelfSignedFiles, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return SelfSignedFiles{}, fmt.Errorf("tlsutil: mkdir %s: %w", outDir, err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return SelfSignedFiles{}, fmt.Errorf("tlsutil: generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return SelfSignedFiles{}, fmt.Errorf("tlsutil: serial: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"propensity-service dev"}},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return SelfSignedFiles{}, fmt.Errorf("tlsutil: create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return SelfSignedFiles{}, fmt.Errorf("tlsutil: marshal key: %w", err)
	}

	files := SelfSignedFiles{
		CertFile: filepath.Join(outDir, "cert.pem"),
		KeyFile:  filepath.Join(outDir, "key.pem"),
	}
	if err := writePEM(files.CertFile, "CERTIFICATE", der); err != nil {
		return SelfSignedFiles{}, err
	}
	if err := writePEM(files.KeyFile, "EC PRIVATE KEY", keyDER); err != nil {
		return SelfSignedFiles{}, err
	}
	return files, nil
}

func writePEM(path, blockType string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("tlsutil: create %s: %w", path, err)
	}
	defer f.Close()

	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		return fmt.Errorf("tlsutil: write %s: %w", path, err)
	}
	return nil
}
