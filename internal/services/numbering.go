package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/models"
)

// Numbering issues invoice numbers of the form INV-000042-9F3A: a monotonic
// sequence plus a short random suffix. The sequence is seeded from the
// highest number already persisted so restarts continue where they left off;
// the suffix and the unique index on invoice_no keep concurrent processes
// from colliding.
type Numbering struct {
	mu   sync.Mutex
	next uint64
}

var invoiceNoPattern = regexp.MustCompile(`^INV-(\d{6})-[0-9A-F]{4}$`)

func NewNumbering(db *gorm.DB) (*Numbering, error) {
	var nos []string
	if err := db.Model(&models.Invoice{}).Pluck("invoice_no", &nos).Error; err != nil {
		return nil, fmt.Errorf("seed numbering: %w", err)
	}
	var max uint64
	for _, no := range nos {
		m := invoiceNoPattern.FindStringSubmatch(no)
		if m == nil {
			continue
		}
		seq, err := strconv.ParseUint(m[1], 10, 64)
		if err == nil && seq > max {
			max = seq
		}
	}
	return &Numbering{next: max + 1}, nil
}

func (n *Numbering) Next() string {
	n.mu.Lock()
	seq := n.next
	n.next++
	n.mu.Unlock()
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("INV-%06d-%s", seq, suffix)
}
