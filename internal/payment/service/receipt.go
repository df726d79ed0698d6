package service

import (
	"strconv"
	"strings"
	"time"
)

// The gateway rejects receipts longer than 40 characters.
const maxReceiptLen = 40

const receiptPrefix = "rcpt_"

// makeReceipt builds a per-user, per-request receipt string that always
// satisfies the gateway's length limit. User IDs longer than the remaining
// budget are truncated; the millisecond timestamp suffix keeps orders
// placed within the same second distinguishable.
func makeReceipt(userID string, now time.Time) string {
	suffix := "_" + strconv.FormatInt(now.UnixMilli(), 10)
	budget := maxReceiptLen - len(receiptPrefix) - len(suffix)

	uid := strings.TrimSpace(userID)
	if len(uid) > budget {
		uid = uid[:budget]
	}
	return receiptPrefix + uid + suffix
}
