package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// codeOpts define the SCA codes: six digits, valid for five minutes with
// one period of skew.
var codeOpts = totp.ValidateOpts{
	Period:    300,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// CodeSender delivers an SCA code to the PSU.
type CodeSender interface {
	Send(ctx context.Context, psu domain.PSU, method domain.ScaMethod, code string) error
}

// LogSender "delivers" codes by logging them, which is all a sandbox needs.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, psu domain.PSU, method domain.ScaMethod, code string) error {
	slogx.FromContext(ctx).Info("sca code sent",
		"login", psu.Login,
		"method", method.ID,
		"type", method.Type,
		"code", code,
	)
	return nil
}

// CodeService generates and checks per-authorisation SCA codes.
type CodeService struct {
	Issuer string
	Sender CodeSender

	// StaticCode, when set, is accepted in addition to the generated code.
	// Meant for automated tests against the sandbox.
	StaticCode string

	Now func() time.Time
}

// Deliver creates a fresh TOTP seed, sends the current code over method and
// returns the seed to store on the authorisation.
func (s *CodeService) Deliver(ctx context.Context, psu domain.PSU, method domain.ScaMethod) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: psu.Login,
		Period:      codeOpts.Period,
		Digits:      codeOpts.Digits,
		Algorithm:   codeOpts.Algorithm,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp seed: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), s.now(), codeOpts)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	sender := s.Sender
	if sender == nil {
		sender = LogSender{}
	}
	if err := sender.Send(ctx, psu, method, code); err != nil {
		return "", fmt.Errorf("send code: %w", err)
	}
	return key.Secret(), nil
}

// Check reports whether code is valid for seed.
func (s *CodeService) Check(seed, code string) bool {
	if s.StaticCode != "" && cryptox.EqualConstantTime(s.StaticCode, code) {
		return true
	}
	if seed == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, seed, s.now(), codeOpts)
	return err == nil && ok
}

func (s *CodeService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
