package taxcalc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransactions encodes a batch of transactions as JSONL, one
// transaction per line, in the order given.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		line, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to encode %s transaction: %w", tx.What(), err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions decodes a stream of JSONL data from an io.Reader,
// decodes each line into the appropriate transaction struct, and returns the
// batch sorted chronologically.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		// Probe the kind first, then decode the full variant.
		var probe struct {
			Kind TxKind `json:"kind"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("line %d: invalid transaction: %w", line, err)
		}

		var tx Transaction
		var err error
		switch probe.Kind {
		case KindBuy:
			var t Buy
			err = json.Unmarshal(raw, &t)
			tx = t
		case KindSell:
			var t Sell
			err = json.Unmarshal(raw, &t)
			tx = t
		case KindDividend:
			var t Dividend
			err = json.Unmarshal(raw, &t)
			tx = t
		default:
			return nil, fmt.Errorf("line %d: unknown transaction kind %q", line, probe.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s transaction: %w", line, probe.Kind, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	SortTransactions(txs)
	return txs, nil
}

// SortTransactions sorts a batch chronologically, in place. The sort is
// stable: transactions on the same day keep their original order, which is
// what resolves FIFO ties between same-day purchases.
func SortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].When().Before(txs[j].When())
	})
}
