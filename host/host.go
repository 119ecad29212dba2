package host

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/textconv"
	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/errors"
	"github.com/wippyai/textconv/memconv"
)

// ModuleName is the import module name guests use.
const ModuleName = "textconv"

// AllocExport is the guest export used for output allocation.
const AllocExport = "cabi_realloc"

// Guest encoding tags.
const (
	TagDefault int32 = 0
	TagNarrow  int32 = 1
	TagWide    int32 = 2
)

// Func describes one exported host function.
type Func struct {
	Handler     api.GoModuleFunc
	Name        string
	ParamNames  []string
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// Host exposes a memconv.Converter to wasm guests.
type Host struct {
	conv *memconv.Converter
	def  charset.Encoding
}

// New creates a Host. Guest tag 0 resolves to def, or to charset.BuildDefault
// when def is not a concrete encoding.
func New(conv *memconv.Converter, def charset.Encoding) *Host {
	return &Host{conv: conv, def: charset.Default.Resolve(def)}
}

// Namespace returns the module name the functions are exported under.
func (h *Host) Namespace() string {
	return ModuleName
}

// DefaultEncoding returns the encoding guest tag 0 resolves to.
func (h *Host) DefaultEncoding() charset.Encoding {
	return h.def
}

// Functions lists the host functions in export order.
func (h *Host) Functions() []Func {
	i32 := api.ValueTypeI32
	return []Func{
		{
			Name:        "convert_inbuf",
			Handler:     h.convertInBuf,
			ParamNames:  []string{"src", "src_type", "src_len", "dst", "dst_type", "dst_cap"},
			ParamTypes:  []api.ValueType{i32, i32, i32, i32, i32, i32},
			ResultTypes: []api.ValueType{i32},
		},
		{
			Name:        "convert_alloc",
			Handler:     h.convertAlloc,
			ParamNames:  []string{"src", "src_type", "src_len", "dst_type", "out_len_ptr"},
			ParamTypes:  []api.ValueType{i32, i32, i32, i32, i32},
			ResultTypes: []api.ValueType{i32},
		},
		{
			Name:        "measure",
			Handler:     h.measure,
			ParamNames:  []string{"src", "src_type", "src_len", "dst_type"},
			ParamTypes:  []api.ValueType{i32, i32, i32, i32},
			ResultTypes: []api.ValueType{i32},
		},
	}
}

// Instantiate registers the host module in r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	for _, f := range h.Functions() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.Handler, f.ParamTypes, f.ResultTypes).
			WithParameterNames(f.ParamNames...).
			Export(f.Name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "instantiate host module")
	}
	Logger().Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Stringer("default_encoding", h.def))
	return mod, nil
}

// convert_inbuf(src, src_type, src_len, dst, dst_type, dst_cap) -> written | error code
func (h *Host) convertInBuf(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeI32(h.inBuf(WrapMemory(mod.Memory()), stack))
}

// convert_alloc(src, src_type, src_len, dst_type, out_len_ptr) -> ptr | 0
func (h *Host) convertAlloc(ctx context.Context, mod api.Module, stack []uint64) {
	alloc := WrapAllocator(ctx, mod.ExportedFunction(AllocExport))
	stack[0] = api.EncodeU32(h.alloc(WrapMemory(mod.Memory()), alloc, stack))
}

// measure(src, src_type, src_len, dst_type) -> units | error code
func (h *Host) measure(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeI32(h.measureUnits(WrapMemory(mod.Memory()), stack))
}

func (h *Host) inBuf(mem textconv.Memory, stack []uint64) int32 {
	src := ref(stack[0], stack[2])
	dst := api.DecodeU32(stack[3])
	capUnits := api.DecodeI32(stack[5])

	from, to, err := h.tags(api.DecodeI32(stack[1]), api.DecodeI32(stack[4]))
	if err == nil && mem == nil {
		err = errors.InvalidInput(errors.PhaseHost, "calling module has no memory")
	}
	if err == nil && capUnits < 0 {
		err = errors.InvalidInput(errors.PhaseHost, "negative destination capacity")
	}
	if err != nil {
		return h.fail("convert_inbuf", err)
	}

	n, err := h.conv.ConvertBuf(mem, src, from, dst, to, uint32(capUnits))
	if err != nil {
		return h.fail("convert_inbuf", err)
	}
	return int32(n)
}

func (h *Host) alloc(mem textconv.Memory, alloc textconv.Allocator, stack []uint64) uint32 {
	src := ref(stack[0], stack[2])
	outLen := api.DecodeU32(stack[4])

	from, to, err := h.tags(api.DecodeI32(stack[1]), api.DecodeI32(stack[3]))
	if err == nil && mem == nil {
		err = errors.InvalidInput(errors.PhaseHost, "calling module has no memory")
	}
	if err == nil && alloc == nil {
		err = errors.New(errors.PhaseHost, errors.KindAllocation).
			Detail("calling module does not export %s", AllocExport).
			Build()
	}
	if err != nil {
		h.fail("convert_alloc", err)
		return 0
	}

	ptr, n, err := h.conv.ConvertAlloc(mem, alloc, src, from, to)
	if err == nil && n > math.MaxInt32 {
		err = errors.New(errors.PhaseHost, errors.KindAllocation).
			Value(n).
			Detail("result of %d units does not fit an i32 length", n).
			Build()
	}
	if err == nil && outLen != 0 {
		err = mem.WriteU32(outLen, n)
	}
	if err != nil {
		if ptr != 0 {
			size, _ := charset.ByteSize(to, uint64(n)+1)
			alloc.Free(ptr, size, uint32(to.UnitSize()))
		}
		h.fail("convert_alloc", err)
		return 0
	}
	return ptr
}

func (h *Host) measureUnits(mem textconv.Memory, stack []uint64) int32 {
	src := ref(stack[0], stack[2])

	from, to, err := h.tags(api.DecodeI32(stack[1]), api.DecodeI32(stack[3]))
	if err == nil && mem == nil {
		err = errors.InvalidInput(errors.PhaseHost, "calling module has no memory")
	}
	if err != nil {
		return h.fail("measure", err)
	}

	n, err := h.conv.Measure(mem, src, from, to)
	if err == nil && n > math.MaxInt32 {
		err = errors.InvalidInput(errors.PhaseHost, "measured length does not fit an i32")
	}
	if err != nil {
		return h.fail("measure", err)
	}
	return int32(n)
}

// tags resolves a pair of guest encoding tags. Tag 0 is the configured default.
func (h *Host) tags(src, dst int32) (charset.Encoding, charset.Encoding, error) {
	from, err := h.tag(src)
	if err != nil {
		return 0, 0, err
	}
	to, err := h.tag(dst)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func (h *Host) tag(v int32) (charset.Encoding, error) {
	switch v {
	case TagDefault:
		return h.def, nil
	case TagNarrow:
		return charset.Narrow, nil
	case TagWide:
		return charset.Wide, nil
	}
	return 0, errors.New(errors.PhaseHost, errors.KindInvalidInput).
		Value(v).
		Detail("unknown encoding tag %d", v).
		Build()
}

func (h *Host) fail(fn string, err error) int32 {
	code := Code(err)
	Logger().Debug("textconv call failed",
		zap.String("func", fn),
		zap.Int32("code", code),
		zap.Error(err))
	return code
}

func ref(ptr, length uint64) memconv.Ref {
	return memconv.Ref{Ptr: api.DecodeU32(ptr), Len: api.DecodeI32(length)}
}
