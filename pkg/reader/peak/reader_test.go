package peak

import (
	"errors"
	"strings"
	"testing"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/delimited"
	"github.com/google/go-cmp/cmp"
)

func TestReader(t *testing.T) {
	input := "frame_num\tscan_num\tmz\tintensity\n" +
		"10\t150\t618.3\t1200\n" +
		"10\t151\t619.8\t35\n"

	peaks, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []core.IsotopicPeak{
		{ScanLc: 10, ScanIms: 150, Mz: 618.3, Intensity: 1200},
		{ScanLc: 10, ScanIms: 151, Mz: 619.8, Intensity: 35},
	}
	if diff := cmp.Diff(want, peaks); diff != "" {
		t.Errorf("ReadAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderColumnOrder(t *testing.T) {
	input := "intensity\tmz\tscan_num\tframe_num\n7\t100.5\t2\t1\n"

	peaks, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []core.IsotopicPeak{{ScanLc: 1, ScanIms: 2, Mz: 100.5, Intensity: 7}}
	if diff := cmp.Diff(want, peaks); diff != "" {
		t.Errorf("ReadAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderErrors(t *testing.T) {
	_, err := ReadAll(strings.NewReader("frame_num\tscan_num\tmz\n1\t2\t3\n"))
	if !errors.Is(err, delimited.ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}

	_, err = ReadAll(strings.NewReader("frame_num\tscan_num\tmz\tintensity\n1\t2\t3\t4\n1\tx\t3\t4\n"))
	var parseErr *delimited.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if parseErr.Line != 3 || parseErr.Column != ColumnScan {
		t.Errorf("Unexpected parse error %+v", parseErr)
	}
}

func TestReaderEmpty(t *testing.T) {
	peaks, err := ReadAll(strings.NewReader("frame_num\tscan_num\tmz\tintensity\n"))
	if err != nil || len(peaks) != 0 {
		t.Errorf("Expected no peaks and no error, got %v, %v", peaks, err)
	}
}
