package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// SaveModel writes model to filename with encoding/gob. Models that need a
// custom wire form implement gob.GobEncoder.
//
// Example:
//
//	reg := linear.NewLinearRegression(2, 0.01)
//	// ... training ...
//	err := model.SaveModel(reg, "model.gob")
func SaveModel(model any, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer closeFile(file, &err)

	return SaveModelToWriter(model, file)
}

// LoadModel decodes a model saved with SaveModel into model, which must be a
// pointer.
func LoadModel(model any, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = file.Close() }()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter writes model to w.
func SaveModelToWriter(model any, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader decodes a model from r.
func LoadModelFromReader(model any, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// closeFile closes c and reports a close failure through err unless err
// already holds an earlier failure.
func closeFile(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = errors.Wrap(cerr, "failed to close file")
	}
}
