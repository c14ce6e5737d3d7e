package mseed

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrIncompatibleSamples is returned when converting text samples
	// to or from a numeric representation.
	ErrIncompatibleSamples = errors.New("cannot convert text samples to/from numeric type")
	// ErrPrecisionLoss is returned when converting samples to integers
	// would discard a sub-integer component.
	ErrPrecisionLoss = errors.New("loss of precision converting samples to integers")
)

// subIntegerTolerance is the largest rounding residual accepted when
// converting floating point samples to integers.
const subIntegerTolerance = 1e-6

// PrecisionLossError reports the sample that could not be converted to an
// integer without losing its sub-integer component.
type PrecisionLossError struct {
	Index int
	Value float64
	Loss  float64
}

func (e *PrecisionLossError) Error() string {
	return fmt.Sprintf("%v: sample %d value %g loss %g", ErrPrecisionLoss, e.Index, e.Value, e.Loss)
}

func (e *PrecisionLossError) Unwrap() error { return ErrPrecisionLoss }

// SampleTypeError reports an impossible representation change.
type SampleTypeError struct {
	From SampleType
	To   SampleType
}

func (e *SampleTypeError) Error() string {
	return fmt.Sprintf("%v: %s to %s", ErrIncompatibleSamples, e.From, e.To)
}

func (e *SampleTypeError) Unwrap() error { return ErrIncompatibleSamples }

// ConvertSamples converts a record's decoded samples to the representation
// required by the target encoding. EncodingUnspecified preserves the current
// representation. The sample count is unchanged; the previous buffer is
// released whenever a new representation replaces it.
//
// Converting to integers fails with a PrecisionLossError when any sample's
// rounding residual exceeds 1e-6. Narrowing float64 to float32 is performed
// without a loss check, matching long-standing converter behavior.
func ConvertSamples(rec *Record, target Encoding) error {
	current := rec.Samples.Class()

	required := RequiredSampleType(target, current)
	if required == current || required == SampleUnknown {
		return nil
	}

	if current == SampleText || required == SampleText {
		return &SampleTypeError{From: current, To: required}
	}

	switch required {
	case SampleInt32:
		return convertToInt32(rec, current)
	case SampleFloat32:
		return convertToFloat32(rec, current)
	case SampleFloat64:
		return convertToFloat64(rec, current)
	default:
		return &SampleTypeError{From: current, To: required}
	}
}

func convertToInt32(rec *Record, current SampleType) error {
	switch current {
	case SampleFloat32:
		data := rec.Samples.Float32()

		out := make([]int32, len(data))
		for i, v := range data {
			rounded, err := roundToInt32(float64(v), i)
			if err != nil {
				return err
			}

			out[i] = rounded
		}

		rec.Samples.SetInt32(out)
	case SampleFloat64:
		data := rec.Samples.Float64()

		out := make([]int32, len(data))
		for i, v := range data {
			rounded, err := roundToInt32(v, i)
			if err != nil {
				return err
			}

			out[i] = rounded
		}

		rec.Samples.SetInt32(out)
	default:
		return &SampleTypeError{From: current, To: SampleInt32}
	}

	return nil
}

func roundToInt32(value float64, index int) (int32, error) {
	rounded := math.Round(value)

	if loss := math.Abs(value - rounded); loss > subIntegerTolerance {
		return 0, &PrecisionLossError{Index: index, Value: value, Loss: loss}
	}

	return int32(rounded), nil
}

func convertToFloat32(rec *Record, current SampleType) error {
	switch current {
	case SampleInt32:
		data := rec.Samples.Int32()

		out := make([]float32, len(data))
		for i, v := range data {
			out[i] = float32(v)
		}

		rec.Samples.SetFloat32(out)
	case SampleFloat64:
		// NOTE: narrowing doubles is not checked for precision loss.
		data := rec.Samples.Float64()

		out := make([]float32, len(data))
		for i, v := range data {
			out[i] = float32(v)
		}

		rec.Samples.SetFloat32(out)
	default:
		return &SampleTypeError{From: current, To: SampleFloat32}
	}

	return nil
}

func convertToFloat64(rec *Record, current SampleType) error {
	switch current {
	case SampleInt32:
		data := rec.Samples.Int32()

		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}

		rec.Samples.SetFloat64(out)
	case SampleFloat32:
		data := rec.Samples.Float32()

		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}

		rec.Samples.SetFloat64(out)
	default:
		return &SampleTypeError{From: current, To: SampleFloat64}
	}

	return nil
}
