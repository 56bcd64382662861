package builtin

import (
	"io"
	"strconv"
	"strings"

	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// Printf implements `printf(fmt, ...)`, a formatter re-implemented
// from scratch over strconv/strings.Builder rather than delegated to
// the host's fmt package, so conversions are stable across host
// platforms. Honours conversions %d %i %u %o %x %X %c %s %f %e %g %%,
// flags - + space 0 #, width/precision (including `*`), and the `l`
// length modifier (ignored: all integers are 64-bit internally).
var Printf = &Builtin{
	FuncName: "printf",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Int,
	Variadic: true,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if len(args) == 0 {
			return cvalue.Value{}, cerror.New(cerror.ArityMismatch, pos, "printf: missing format argument")
		}
		if args[0].IsNull() {
			return cvalue.Value{}, segfault(pos, "printf: null format string")
		}
		format, err := readCString(rt, pos, args[0].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		out, err := formatPrintf(rt, pos, format, args[1:])
		if err != nil {
			return cvalue.Value{}, err
		}
		n, werr := io.WriteString(rt.Out, out)
		if werr != nil {
			return cvalue.Value{}, cerror.Wrap(cerror.Internal, pos, werr, "printf: write failed")
		}
		return cvalue.IntVal(int64(n)), nil
	},
}

type convSpec struct {
	flagMinus, flagPlus, flagSpace, flagZero, flagHash bool
	width, precision                                   int
	hasWidth, hasPrecision                             bool
	verb                                               byte
}

// formatPrintf parses format and substitutes args for each conversion,
// one flag/width/precision/conversion specifier at a time.
func formatPrintf(rt *Runtime, pos token.Pos, format string, args []cvalue.Value) (string, error) {
	var sb strings.Builder
	argi := 0
	nextArg := func() (cvalue.Value, error) {
		if argi >= len(args) {
			return cvalue.Value{}, cerror.New(cerror.ArityMismatch, pos, "printf: too few arguments for format")
		}
		v := args[argi]
		argi++
		return v, nil
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			return "", cerror.New(cerror.ParseError, pos, "printf: trailing %% in format")
		}
		if format[i] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}

		var spec convSpec
	flags:
		for i < len(format) {
			switch format[i] {
			case '-':
				spec.flagMinus = true
			case '+':
				spec.flagPlus = true
			case ' ':
				spec.flagSpace = true
			case '0':
				spec.flagZero = true
			case '#':
				spec.flagHash = true
			default:
				break flags
			}
			i++
		}

		if i < len(format) && format[i] == '*' {
			w, err := nextArg()
			if err != nil {
				return "", err
			}
			spec.width = int(w.AsInt64())
			spec.hasWidth = true
			i++
		} else {
			start := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			if i > start {
				spec.width, _ = strconv.Atoi(format[start:i])
				spec.hasWidth = true
			}
		}

		if i < len(format) && format[i] == '.' {
			i++
			spec.hasPrecision = true
			if i < len(format) && format[i] == '*' {
				p, err := nextArg()
				if err != nil {
					return "", err
				}
				spec.precision = int(p.AsInt64())
				i++
			} else {
				start := i
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					i++
				}
				spec.precision, _ = strconv.Atoi(format[start:i])
			}
		}

		for i < len(format) && (format[i] == 'l' || format[i] == 'h') {
			i++ // length modifier ignored: all integers are 64-bit internally
		}

		if i >= len(format) {
			return "", cerror.New(cerror.ParseError, pos, "printf: unterminated conversion")
		}
		spec.verb = format[i]
		i++

		s, err := renderConv(rt, spec, nextArg, pos)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func renderConv(rt *Runtime, spec convSpec, nextArg func() (cvalue.Value, error), pos token.Pos) (string, error) {
	// zeroExtend applies an integer conversion's precision: the minimum
	// number of digits, reached with leading zeros.
	zeroExtend := func(digits string) string {
		if spec.hasPrecision && len(digits) < spec.precision {
			return strings.Repeat("0", spec.precision-len(digits)) + digits
		}
		return digits
	}
	switch spec.verb {
	case 'd', 'i':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		if v.Type.Kind == cvalue.KFloat {
			return "", cerror.New(cerror.TypeMismatch, pos, "printf: %%%c given a float argument", spec.verb)
		}
		n := v.AsInt64()
		return padNumeric(spec, zeroExtend(strings.TrimPrefix(strconv.FormatInt(n, 10), "-")), n < 0), nil

	case 'u':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		return padNumeric(spec, zeroExtend(strconv.FormatUint(uint64(v.AsInt64()), 10)), false), nil

	case 'o':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		digits := zeroExtend(strconv.FormatUint(uint64(v.AsInt64()), 8))
		if spec.flagHash && !strings.HasPrefix(digits, "0") {
			digits = "0" + digits
		}
		return padNumeric(spec, digits, false), nil

	case 'x', 'X':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		digits := zeroExtend(strconv.FormatUint(uint64(v.AsInt64()), 16))
		if spec.verb == 'X' {
			digits = strings.ToUpper(digits)
		}
		if spec.flagHash {
			prefix := "0x"
			if spec.verb == 'X' {
				prefix = "0X"
			}
			digits = prefix + digits
		}
		return padNumeric(spec, digits, false), nil

	case 'c':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		return pad(spec, string(rune(v.AsInt64()))), nil

	case 's':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		s, err := readArgString(rt, v, pos)
		if err != nil {
			return "", err
		}
		if spec.hasPrecision && spec.precision < len(s) {
			s = s[:spec.precision]
		}
		return pad(spec, s), nil

	case 'f', 'e', 'g':
		v, err := nextArg()
		if err != nil {
			return "", err
		}
		prec := 6
		if spec.hasPrecision {
			prec = spec.precision
		}
		f := v.AsFloat()
		var body string
		switch spec.verb {
		case 'f':
			body = strconv.FormatFloat(f, 'f', prec, 64)
		case 'e':
			body = strconv.FormatFloat(f, 'e', prec, 64)
		case 'g':
			body = strconv.FormatFloat(f, 'g', prec, 64)
		}
		return padNumeric(spec, body, f < 0), nil

	default:
		return "", cerror.New(cerror.ParseError, pos, "printf: unsupported conversion %%%c", spec.verb)
	}
}

// readArgString dereferences a %s argument, a char* pointer into the
// heap, into a Go string.
func readArgString(rt *Runtime, v cvalue.Value, pos token.Pos) (string, error) {
	if v.IsNull() {
		return "", segfault(pos, "printf: %s given a null pointer")
	}
	return readCString(rt, pos, v.Addr)
}

// pad applies width/left-justify padding only (used for %c, %s).
func pad(spec convSpec, s string) string {
	if !spec.hasWidth || len(s) >= spec.width {
		return s
	}
	fill := strings.Repeat(" ", spec.width-len(s))
	if spec.flagMinus {
		return s + fill
	}
	return fill + s
}

// padNumeric applies sign flags and width (zero- or space-padded) to a
// numeric conversion's already-formatted digit string.
func padNumeric(spec convSpec, digits string, negative bool) string {
	sign := ""
	if negative {
		sign = "-"
		digits = strings.TrimPrefix(digits, "-")
	} else if spec.flagPlus {
		sign = "+"
	} else if spec.flagSpace {
		sign = " "
	}
	body := sign + digits
	if !spec.hasWidth || len(body) >= spec.width {
		return body
	}
	padLen := spec.width - len(body)
	if spec.flagMinus {
		return body + strings.Repeat(" ", padLen)
	}
	if spec.flagZero && !(spec.hasPrecision && strings.IndexByte("diuoxX", spec.verb) >= 0) {
		return sign + strings.Repeat("0", padLen) + digits
	}
	return strings.Repeat(" ", padLen) + body
}
