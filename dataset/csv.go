package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/pkg/errors"
	"github.com/ezoic/gdlinear/pkg/log"
)

type csvConfig struct {
	header      bool
	targetName  string
	targetIndex int
	comma       rune
}

// CSVOption configures ReadCSV and LoadCSV.
type CSVOption func(*csvConfig)

// WithHeader sets whether the first record holds column names. Default true.
func WithHeader(header bool) CSVOption {
	return func(c *csvConfig) {
		c.header = header
	}
}

// WithTargetColumn selects the target by header name. It requires a header.
func WithTargetColumn(name string) CSVOption {
	return func(c *csvConfig) {
		c.targetName = name
	}
}

// WithTargetIndex selects the target by zero-based column index. Negative
// values count from the end; the default -1 is the last column.
func WithTargetIndex(index int) CSVOption {
	return func(c *csvConfig) {
		c.targetIndex = index
		c.targetName = ""
	}
}

// WithComma sets the field delimiter. Default ','.
func WithComma(comma rune) CSVOption {
	return func(c *csvConfig) {
		c.comma = comma
	}
}

// LoadCSV reads a numeric CSV file. See ReadCSV.
func LoadCSV(filename string, opts ...CSVOption) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dataset")
	}
	defer func() { _ = file.Close() }()

	d, err := ReadCSV(file, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", filename)
	}

	log.GetLoggerWithName("dataset").Debug("CSV loaded",
		log.SourceKey, filename,
		log.SamplesKey, d.NumSamples(),
		log.FeaturesKey, d.NumFeatures(),
	)
	return d, nil
}

// ReadCSV parses numeric CSV data. Every record must have the same number of
// fields and every field must parse as a float. One column is the target
// (the last one unless WithTargetColumn or WithTargetIndex says otherwise);
// the remaining columns, in order, are the features.
//
// Example:
//
//	d, err := dataset.ReadCSV(strings.NewReader("x1,x2,y\n1,2,5\n2,1,4\n"))
//	// d.X is 2×2, d.Y is [5 4], d.FeatureNames is [x1 x2]
func ReadCSV(r io.Reader, opts ...CSVOption) (*Dataset, error) {
	cfg := csvConfig{header: true, targetIndex: -1, comma: ','}
	for _, opt := range opts {
		opt(&cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}

	var names []string
	if cfg.header {
		if len(records) == 0 {
			return nil, errors.NewModelError("ReadCSV", "missing header", errors.ErrEmptyData)
		}
		names = records[0]
		records = records[1:]
	}

	if len(records) == 0 {
		return nil, errors.NewModelError("ReadCSV", "no data rows", errors.ErrEmptyData)
	}

	nCols := len(records[0])
	if nCols < 2 {
		return nil, errors.NewValueError("ReadCSV", "need at least one feature column and a target column")
	}
	if names == nil {
		names = make([]string, nCols)
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}

	target, err := cfg.resolveTarget(names)
	if err != nil {
		return nil, err
	}

	n, f := len(records), nCols-1
	X := mat.NewDense(n, f, nil)
	y := mat.NewVecDense(n, nil)

	line := 1
	if cfg.header {
		line = 2
	}
	for i, record := range records {
		col := 0
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewValueError("ReadCSV",
					fmt.Sprintf("line %d, column %q: %q is not a number", line+i, names[j], field))
			}
			if j == target {
				y.SetVec(i, v)
				continue
			}
			X.Set(i, col, v)
			col++
		}
	}

	features := make([]string, 0, f)
	for j, name := range names {
		if j != target {
			features = append(features, name)
		}
	}

	return &Dataset{
		X:            X,
		Y:            y,
		FeatureNames: features,
		TargetName:   names[target],
	}, nil
}

func (c *csvConfig) resolveTarget(names []string) (int, error) {
	if c.targetName != "" {
		if !c.header {
			return 0, errors.NewValueError("ReadCSV", "a target column name requires a header")
		}
		for j, name := range names {
			if strings.TrimSpace(name) == c.targetName {
				return j, nil
			}
		}
		return 0, errors.NewValueError("ReadCSV", fmt.Sprintf("unknown target column %q", c.targetName))
	}

	idx := c.targetIndex
	if idx < 0 {
		idx += len(names)
	}
	if idx < 0 || idx >= len(names) {
		return 0, errors.NewValueError("ReadCSV", fmt.Sprintf("target index %d out of range", c.targetIndex))
	}
	return idx, nil
}
