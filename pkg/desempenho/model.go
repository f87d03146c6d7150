package desempenho

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
)

// ReadModel reads a fitted pipeline from a gzip compressed, gob
// encoded file.
func ReadModel(path string) (*ml.Pipeline, error) {
	Log("reading model from %s", path)
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	defer in.Close()
	zip, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	defer zip.Close()
	var p ml.Pipeline
	if err := gob.NewDecoder(zip).Decode(&p); err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	return &p, nil
}

// WriteModel writes the fitted pipeline as gob encoded, gzipped file
// to the given path overwriting any previous existing models.  An
// unfitted pipeline leaves the path untouched.
func WriteModel(path string, p *ml.Pipeline) (err error) {
	if !p.Fitted() {
		return fmt.Errorf("writeModel %s: %w", path, ml.ErrNotFitted)
	}
	Log("writing model to %s", path)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writeModel %s: %v", path, err)
	}
	defer func() {
		if exx := out.Close(); exx != nil && err == nil {
			err = fmt.Errorf("writeModel %s: %v", path, exx)
		}
	}()
	zip := gzip.NewWriter(out)
	defer func() {
		if exx := zip.Close(); exx != nil && err == nil {
			err = fmt.Errorf("writeModel %s: %v", path, exx)
		}
	}()
	if err := gob.NewEncoder(zip).Encode(p); err != nil {
		return fmt.Errorf("writeModel %s: %v", path, err)
	}
	return nil
}
