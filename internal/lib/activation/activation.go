// Package activation issues and checks the signed token that carries a
// pending registration between the register and activate calls.
package activation

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"session_auth/internal/lib/jwt"
	"session_auth/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid activation token")
	ErrInvalidCode  = errors.New("invalid or expired activation code")
)

type payload struct {
	User          models.DraftUser `json:"user"`
	Code          string           `json:"activation_code"`
	CodeCreatedAt int64            `json:"activation_code_created_at"`
}

// sealed is the AES-GCM encrypted payload. It is the only data the signed
// token carries.
type sealed struct {
	Nonce      []byte `json:"n"`
	Ciphertext []byte `json:"c"`
}

type Issuer struct {
	signer   *jwt.Signer
	secret   string
	aead     cipher.AEAD
	tokenTTL time.Duration
	codeTTL  time.Duration
}

// New returns an Issuer. tokenTTL bounds the signed token itself, codeTTL
// bounds the time between issuing and using the code. Both are enforced.
func New(signer *jwt.Signer, secret string, tokenTTL, codeTTL time.Duration) *Issuer {
	return &Issuer{
		signer:   signer,
		secret:   secret,
		aead:     newAEAD(secret),
		tokenTTL: tokenTTL,
		codeTTL:  codeTTL,
	}
}

func (i *Issuer) Issue(draft models.DraftUser) (token string, code string, err error) {
	const op = "activation.Issue"

	code, err = generateCode()
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	p := payload{
		User:          draft,
		Code:          code,
		CodeCreatedAt: i.signer.Now().UnixMilli(),
	}

	box, err := i.seal(p)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	token, err = jwt.Sign(i.signer, box, i.secret, i.tokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	return token, code, nil
}

func (i *Issuer) Verify(token, code string) (models.DraftUser, error) {
	const op = "activation.Verify"

	box, err := jwt.Parse[sealed](i.signer, token, i.secret)
	if err != nil {
		return models.DraftUser{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	p, err := i.open(box)
	if err != nil {
		return models.DraftUser{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	elapsed := i.signer.Now().Sub(time.UnixMilli(p.CodeCreatedAt))

	if subtle.ConstantTimeCompare([]byte(p.Code), []byte(code)) != 1 || elapsed > i.codeTTL {
		return models.DraftUser{}, fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}

	return p.User, nil
}

func (i *Issuer) seal(p payload) (sealed, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return sealed{}, err
	}

	nonce := make([]byte, i.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return sealed{}, err
	}

	return sealed{
		Nonce:      nonce,
		Ciphertext: i.aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func (i *Issuer) open(box sealed) (payload, error) {
	if len(box.Nonce) != i.aead.NonceSize() {
		return payload{}, errors.New("bad nonce size")
	}

	plaintext, err := i.aead.Open(nil, box.Nonce, box.Ciphertext, nil)
	if err != nil {
		return payload{}, err
	}

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return payload{}, err
	}

	return p, nil
}

// newAEAD derives an AES-256 key from the activation secret. The derivation
// is domain-separated from the HMAC signing key.
func newAEAD(secret string) cipher.AEAD {
	key := sha256.Sum256([]byte("activation-seal:" + secret))

	// a 32 byte key always yields a valid AES cipher and GCM mode
	block, _ := aes.NewCipher(key[:])
	aead, _ := cipher.NewGCM(block)

	return aead
}

// generateCode returns a uniformly distributed code in 1000..9999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
