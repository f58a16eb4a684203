package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"anoa.com/dailyguessr/internal/entity"
	"anoa.com/dailyguessr/pkg/apperror"
	jsoniter "github.com/json-iterator/go"
)

// ledgerJSON writes the scores file with 4-space indentation and reads it
// back as a stream so object keys keep their file order. Record fields must
// match the on-disk names exactly.
var ledgerJSON = jsoniter.Config{
	IndentionStep:          4,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
	DisallowUnknownFields:  true,
}.Froze()

type fileLedgerRepository struct {
	path string
}

func NewFileLedgerRepository(path string) LedgerRepository {
	return &fileLedgerRepository{path: path}
}

func (r *fileLedgerRepository) Load(ctx context.Context) (entity.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return entity.Ledger{}, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		// first run
		return entity.NewLedger(), nil
	}
	if err != nil {
		return entity.Ledger{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	ledger, err := decodeLedger(data)
	if err != nil {
		return entity.Ledger{}, &apperror.StorageCorruptError{Source: r.path, Err: err}
	}
	return ledger, nil
}

func (r *fileLedgerRepository) Save(ctx context.Context, ledger entity.Ledger) error {
	if err := ctx.Err(); err != nil {
		return &apperror.StorageWriteError{Source: r.path, Err: err}
	}

	data, err := encodeLedger(ledger)
	if err != nil {
		return &apperror.StorageWriteError{Source: r.path, Err: err}
	}

	if err := writeFileAtomic(r.path, data); err != nil {
		return &apperror.StorageWriteError{Source: r.path, Err: err}
	}
	return nil
}

// writeFileAtomic writes next to path, syncs and renames over path, so a
// reader sees either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func encodeLedger(ledger entity.Ledger) ([]byte, error) {
	stream := ledgerJSON.BorrowStream(nil)
	defer ledgerJSON.ReturnStream(stream)

	records := ledger.Records()
	if len(records) == 0 {
		stream.WriteEmptyObject()
	} else {
		stream.WriteObjectStart()
		for i, rec := range records {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(rec.ID)
			stream.WriteVal(rec)
		}
		stream.WriteObjectEnd()
	}
	if stream.Error != nil {
		return nil, stream.Error
	}

	out := make([]byte, 0, len(stream.Buffer())+1)
	out = append(out, stream.Buffer()...)
	return append(out, '\n'), nil
}

func decodeLedger(data []byte) (entity.Ledger, error) {
	iter := ledgerJSON.BorrowIterator(data)
	defer ledgerJSON.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return entity.Ledger{}, errors.New("top-level value is not an object")
	}

	var records []entity.ParticipantRecord
	iter.ReadObjectCB(func(it *jsoniter.Iterator, id string) bool {
		if it.WhatIsNext() != jsoniter.ObjectValue {
			it.ReportError("read participant", fmt.Sprintf("value for %q is not an object", id))
			return false
		}
		var rec entity.ParticipantRecord
		it.ReadVal(&rec)
		if it.Error != nil {
			return false
		}
		if rec.TotalGames < 0 {
			it.ReportError("read participant", fmt.Sprintf("participant %q has negative totalGames %d", id, rec.TotalGames))
			return false
		}
		rec.ID = id
		records = append(records, rec)
		return it.Error == nil
	})
	// a complete object never reads past its closing brace, so io.EOF here
	// means the document was cut short
	if iter.Error != nil {
		if errors.Is(iter.Error, io.EOF) {
			return entity.Ledger{}, io.ErrUnexpectedEOF
		}
		return entity.Ledger{}, iter.Error
	}

	iter.WhatIsNext()
	if !errors.Is(iter.Error, io.EOF) {
		return entity.Ledger{}, errors.New("unexpected data after top-level object")
	}

	return entity.NewLedger(records...), nil
}
