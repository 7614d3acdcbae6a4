// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package verifier locates the signature inside a PKCS#7 SignedData blob,
// such as the one embedded in the archive comment of a signed update
// package. It performs a structural walk only: the digest algorithm is
// recognized by comparing raw OID octets and the signature is returned as an
// uninterpreted slice of the input. Checking the signature against a key is
// the caller's concern.
package verifier

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/warpboard/platform-bootable-recovery/asn1"
)

// DER content octets of the OBJECT IDENTIFIERs the walk recognizes.
var (
	oidSignedData = []byte{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x07, 0x02} // 1.2.840.113549.1.7.2
	oidSHA1       = []byte{0x2b, 0x0e, 0x03, 0x02, 0x1a}                         // 1.3.14.3.2.26
	oidSHA256     = []byte{0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01} // 2.16.840.1.101.3.4.2.1
)

// ErrNotSignedData indicates that the blob's content type OID is not
// pkcs7-signedData.
var ErrNotSignedData = errors.New("verifier: not a SignedData blob")

// DigestAlgorithm identifies the digest algorithm named in the blob's
// digestAlgorithms set.
type DigestAlgorithm int

const (
	DigestUnknown DigestAlgorithm = iota
	DigestSHA1
	DigestSHA256
)

func (a DigestAlgorithm) String() string {
	switch a {
	case DigestSHA1:
		return "sha1"
	case DigestSHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// SignedData holds the pieces of a SignedData blob needed to verify it.
// Signature and DigestOID alias the input slice passed to [ParseSignedData].
type SignedData struct {
	// DigestAlgorithm is the recognized digest algorithm, or DigestUnknown if
	// the OID did not match a known one. An unknown algorithm is not a parse
	// error; DigestOID carries the raw octets either way.
	DigestAlgorithm DigestAlgorithm

	// DigestOID holds the content octets of the digest algorithm OID.
	DigestOID []byte

	// Signature holds the encryptedDigest octets of the first SignerInfo.
	Signature []byte
}

// ParseSignedData walks the BER structure of blob and extracts the digest
// algorithm and the signature of its first SignerInfo. The returned
// SignedData aliases blob, which must stay unmodified while it is in use.
//
// The walk accepts the layout produced by common signing tools: a
// ContentInfo SEQUENCE carrying the signedData OID, a [0] EXPLICIT wrapper,
// then the SignedData SEQUENCE with optional certificates and crls sections
// before the signerInfos set.
func ParseSignedData(blob []byte) (*SignedData, error) {
	content, err := asn1.NewCursor(blob).SequenceGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading ContentInfo: %w", err)
	}
	contentType, err := content.OID()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading content type: %w", err)
	}
	if !bytes.Equal(contentType, oidSignedData) {
		return nil, ErrNotSignedData
	}
	if err := content.Next(); err != nil {
		return nil, fmt.Errorf("verifier: skipping content type: %w", err)
	}
	wrapper, err := content.ConstructedGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading content wrapper: %w", err)
	}
	if wrapper.ContextType() != 0 {
		return nil, fmt.Errorf("verifier: content wrapper has tag [%d], want [0]", wrapper.ContextType())
	}
	sd, err := wrapper.SequenceGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading SignedData: %w", err)
	}

	// version INTEGER
	if err := sd.Next(); err != nil {
		return nil, fmt.Errorf("verifier: skipping version: %w", err)
	}

	// digestAlgorithms SET OF AlgorithmIdentifier; only the first entry is
	// consulted, matching the single-signer layout of update packages.
	algorithms, err := sd.SetGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading digestAlgorithms: %w", err)
	}
	algorithm, err := algorithms.SequenceGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading AlgorithmIdentifier: %w", err)
	}
	digestOID, err := algorithm.OID()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading digest OID: %w", err)
	}
	if err := sd.Next(); err != nil {
		return nil, fmt.Errorf("verifier: skipping digestAlgorithms: %w", err)
	}

	// contentInfo SEQUENCE
	if err := sd.Next(); err != nil {
		return nil, fmt.Errorf("verifier: skipping contentInfo: %w", err)
	}

	// optional certificates [0] and crls [1] sections
	for {
		if _, err := sd.ConstructedGet(); err != nil {
			break
		}
		if err := sd.Next(); err != nil {
			return nil, fmt.Errorf("verifier: skipping certificates: %w", err)
		}
	}

	signers, err := sd.SetGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading signerInfos: %w", err)
	}
	signer, err := signers.SequenceGet()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading SignerInfo: %w", err)
	}

	// version, issuerAndSerialNumber, digestAlgorithm
	for _, field := range []string{"version", "issuerAndSerialNumber", "digestAlgorithm"} {
		if err := signer.Next(); err != nil {
			return nil, fmt.Errorf("verifier: skipping signer %s: %w", field, err)
		}
	}
	// optional authenticatedAttributes [0]
	if _, err := signer.ConstructedGet(); err == nil {
		if err := signer.Next(); err != nil {
			return nil, fmt.Errorf("verifier: skipping authenticatedAttributes: %w", err)
		}
	}
	// digestEncryptionAlgorithm
	if err := signer.Next(); err != nil {
		return nil, fmt.Errorf("verifier: skipping digestEncryptionAlgorithm: %w", err)
	}
	signature, err := signer.OctetString()
	if err != nil {
		return nil, fmt.Errorf("verifier: reading encryptedDigest: %w", err)
	}

	return &SignedData{
		DigestAlgorithm: digestAlgorithm(digestOID),
		DigestOID:       digestOID,
		Signature:       signature,
	}, nil
}

func digestAlgorithm(oid []byte) DigestAlgorithm {
	switch {
	case bytes.Equal(oid, oidSHA1):
		return DigestSHA1
	case bytes.Equal(oid, oidSHA256):
		return DigestSHA256
	default:
		return DigestUnknown
	}
}
