package service

import (
	"strings"
	"testing"
	"time"
)

func TestMakeReceiptLength(t *testing.T) {
	now := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

	userIDs := []string{
		"u1",
		"28-character-user-identifier",
		strings.Repeat("a", 64),
		strings.Repeat("b", 200),
	}
	for _, uid := range userIDs {
		receipt := makeReceipt(uid, now)
		if len(receipt) > maxReceiptLen {
			t.Fatalf("receipt %q is %d chars, gateway limit is %d", receipt, len(receipt), maxReceiptLen)
		}
		if !strings.HasPrefix(receipt, receiptPrefix) {
			t.Fatalf("receipt %q missing prefix", receipt)
		}
	}
}

func TestMakeReceiptDistinguishesRequests(t *testing.T) {
	uid := "user-123"
	first := makeReceipt(uid, time.Unix(1700000000, 0))
	second := makeReceipt(uid, time.Unix(1700000001, 0))
	if first == second {
		t.Fatalf("receipts for separate requests should differ")
	}
}

func TestMakeReceiptDistinguishesSameSecondOrders(t *testing.T) {
	uid := "user-123"
	base := time.Unix(1700000000, 0)
	first := makeReceipt(uid, base)
	second := makeReceipt(uid, base.Add(5*time.Millisecond))
	if first == second {
		t.Fatalf("orders within one second should produce distinct receipts, both %q", first)
	}
}
