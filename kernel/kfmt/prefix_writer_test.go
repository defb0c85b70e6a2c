package kfmt

import (
	"bytes"
	"errors"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	specs := []struct {
		input string
		exp   string
	}{
		{
			"",
			"",
		},
		{
			"\n",
			"prefix: \n",
		},
		{
			"no line break anywhere",
			"prefix: no line break anywhere",
		},
		{
			"line feed at the end\n",
			"prefix: line feed at the end\n",
		},
		{
			"\nmaster offset 0x20\nslave offset 0x28\nmasks 0xfd/0xff\nremapped",
			"prefix: \nprefix: master offset 0x20\nprefix: slave offset 0x28\nprefix: masks 0xfd/0xff\nprefix: remapped",
		},
	}

	var (
		buf bytes.Buffer
		w   = PrefixWriter{
			Sink:   &buf,
			Prefix: []byte("prefix: "),
		}
	)

	for specIndex, spec := range specs {
		buf.Reset()
		w.bytesAfterPrefix = 0

		wrote, err := w.Write([]byte(spec.input))
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		}

		if expLen := len(spec.input); expLen != wrote {
			t.Errorf("[spec %d] expected writer to write %d bytes; wrote %d", specIndex, expLen, wrote)
		}

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected output:\n%q\ngot:\n%q", specIndex, spec.exp, got)
		}
	}
}

func TestPrefixWriterErrors(t *testing.T) {
	specs := []string{
		"no line break anywhere",
		"\nmaster offset 0x20\nslave offset 0x28",
	}

	var (
		expErr = errors.New("write failed")
		w      = PrefixWriter{
			Sink:   writerThatAlwaysErrors{expErr},
			Prefix: []byte("prefix: "),
		}
	)

	for specIndex, spec := range specs {
		w.bytesAfterPrefix = 0
		_, err := w.Write([]byte(spec))
		if err != expErr {
			t.Errorf("[spec %d] expected error: %v; got %v", specIndex, expErr, err)
		}
	}
}

type writerThatAlwaysErrors struct {
	err error
}

func (w writerThatAlwaysErrors) Write(_ []byte) (int, error) {
	return 0, w.err
}

func TestPrefixWriterWithoutSink(t *testing.T) {
	defer earlyBuf.Reset()
	earlyBuf.Reset()

	w := PrefixWriter{Prefix: []byte("[hal] tty(0.1.0): ")}
	w.Write([]byte("initialized\n"))

	var buf bytes.Buffer
	SetOutputSink(&buf)
	defer SetOutputSink(nil)

	if exp := "[hal] tty(0.1.0): initialized\n"; buf.String() != exp {
		t.Fatalf("expected early buffer to contain %q; got %q", exp, buf.String())
	}
}
