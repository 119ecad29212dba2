package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/convert"
	"github.com/wippyai/textconv/errors"
)

type convertFlags struct {
	from     string
	to       string
	in       string
	out      string
	capacity int
	hex      bool
	nul      bool
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert input between narrow and wide encodings",
		Long: `Convert reads a string in one encoding and writes it in the other.

Narrow data is raw code page bytes. Wide data is UTF-16LE. With --cap the
conversion writes into a buffer of that many units and truncates silently;
otherwise the result is sized exactly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.from, "from", "", "Source encoding: narrow, wide or default")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination encoding: narrow, wide or default")
	cmd.Flags().StringVar(&f.in, "in", "", "Input file (default stdin)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&f.capacity, "cap", 0, "Destination capacity in units, terminator included")
	cmd.Flags().BoolVar(&f.hex, "hex", false, "Write output as hex")
	cmd.Flags().BoolVar(&f.nul, "nul", false, "Stop input at the first zero unit and terminate output")
	return cmd
}

func newMeasureCmd(a *app) *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Print the number of units a conversion produces",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := a.encodings(f)
			if err != nil {
				return err
			}
			src, err := readSource(cmd.InOrStdin(), f.in, from, f.nul)
			if err != nil {
				return err
			}
			n, err := a.conv.Measure(src, to)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	cmd.Flags().StringVar(&f.from, "from", "", "Source encoding: narrow, wide or default")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination encoding: narrow, wide or default")
	cmd.Flags().StringVar(&f.in, "in", "", "Input file (default stdin)")
	cmd.Flags().BoolVar(&f.nul, "nul", false, "Stop input at the first zero unit")
	return cmd
}

func (a *app) encodings(f convertFlags) (charset.Encoding, charset.Encoding, error) {
	from, err := a.encoding(f.from)
	if err != nil {
		return 0, 0, err
	}
	to, err := a.encoding(f.to)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func (a *app) runConvert(cmd *cobra.Command, f convertFlags) (err error) {
	if f.capacity < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "--cap must not be negative")
	}
	from, to, err := a.encodings(f)
	if err != nil {
		return err
	}
	src, err := readSource(cmd.InOrStdin(), f.in, from, f.nul)
	if err != nil {
		return err
	}

	var (
		out convert.Buffer
		n   int
	)
	if f.capacity > 0 {
		out = convert.NewBuffer(to, f.capacity)
		n, err = a.conv.Convert(out, src)
		if err != nil {
			return err
		}
		if full, merr := a.conv.Measure(src, to); merr == nil && full > n {
			a.log.Info("output truncated",
				zap.Int("written", n),
				zap.Int("required", full),
				zap.Int("cap", f.capacity))
		}
	} else {
		out, n, err = a.conv.Alloc(src, to)
		if err != nil {
			return err
		}
	}
	a.log.Debug("converted",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("units", n))

	units := n
	if f.nul {
		units++
	}
	data := out.Bytes(units)

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, cerr := os.Create(f.out)
		if cerr != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, cerr, "create "+f.out)
		}
		defer multierr.AppendInvoke(&err, multierr.Close(file))
		w = file
	} else if !f.hex && isTerminal(w) {
		return errors.InvalidInput(errors.PhaseConfig, "refusing to write binary output to a terminal; use --hex or --out")
	}
	return writeOutput(w, data, f.hex)
}

// readSource reads narrow bytes or UTF-16LE units. Without nul the whole input
// is the string.
func readSource(stdin io.Reader, path string, enc charset.Encoding, nul bool) (src convert.View, err error) {
	r := stdin
	if path != "" {
		file, oerr := os.Open(path)
		if oerr != nil {
			return convert.View{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, oerr, "open "+path)
		}
		defer multierr.AppendInvoke(&err, multierr.Close(file))
		r = file
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return convert.View{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read input")
	}

	length := charset.Terminated
	if enc == charset.Narrow {
		if !nul {
			length = len(data)
		}
		return convert.NarrowView(data, length), nil
	}

	if len(data)%2 != 0 {
		return convert.View{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(len(data)).
			Detail("wide input has odd byte length %d", len(data)).
			Build()
	}
	wide := make([]uint16, len(data)/2)
	for i := range wide {
		wide[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	if !nul {
		length = len(wide)
	}
	return convert.WideView(wide, length), nil
}

func writeOutput(w io.Writer, data []byte, hex bool) error {
	if hex {
		_, err := fmt.Fprintf(w, "% x\n", data)
		return err
	}
	_, err := w.Write(data)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
