package services

import (
	"testing"

	"github.com/chattyhq/chatty/types"
)

func TestSendRejectsBadAddresses(t *testing.T) {
	m := NewSMTPMailer(types.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "not-an-address",
		To:      "user@example.com",
	})
	if err := m.Send("subject", "body"); err == nil {
		t.Fatal("Send() should reject a malformed from address")
	}

	m = NewSMTPMailer(types.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "chatty@example.com",
		To:      "also not an address",
	})
	if err := m.Send("subject", "body"); err == nil {
		t.Fatal("Send() should reject a malformed to address")
	}
}
