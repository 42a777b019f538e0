package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net"
	"os"
	"strings"
	"time"
)

// certgen writes a self signed certificate for local https runs. The
// defaults match the [tls] section of configs/server.toml.
func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var (
		hosts    = flag.String("host", "localhost,127.0.0.1,::1", "comma separated hostnames and ips for the certificate")
		certFile = flag.String("cert", "cert.pem", "certificate output path")
		keyFile  = flag.String("key", "key.pem", "key output path")
		validFor = flag.Duration("valid-for", 365*24*time.Hour, "validity period")
		force    = flag.Bool("force", false, "overwrite existing files")
	)
	flag.Parse()

	if !*force && (exists(*certFile) || exists(*keyFile)) {
		return fmt.Errorf("%s or %s already exists, use -force to overwrite", *certFile, *keyFile)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}
	template, err := certTemplate(strings.Split(*hosts, ","), *validFor)
	if err != nil {
		return err
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return err
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}
	if err := writePEM(*certFile, "CERTIFICATE", der); err != nil {
		return err
	}
	if err := writePEM(*keyFile, "EC PRIVATE KEY", keyDER); err != nil {
		return err
	}
	fmt.Printf("wrote %s and %s\n", *certFile, *keyFile)
	return nil
}

func certTemplate(hosts []string, validFor time.Duration) (*x509.Certificate, error) {
	serialLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, serialLimit)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Glicko Rating Project"},
		},
		NotBefore:             now,
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, host := range hosts {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, host)
		}
	}
	return template, nil
}

func writePEM(path, blockType string, der []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	err = pem.Encode(f, &pem.Block{Type: blockType, Bytes: der})
	return errors.Join(err, f.Close())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
