package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorgo/tensorgo/backends"
)

// convCache stands in for the private per-kernel scratch space a real conv
// kernel would keep (e.g. a workspace buffer or an algorithm choice).
type convCache struct {
	invocations int
}

// cachingKernel records the cache instance each Invoke received.
type cachingKernel struct {
	seenCaches []*convCache
}

func (k *cachingKernel) NewCache() Cache { return &convCache{} }

// Invoke consumes the two tensor arguments and pushes a result, like a real
// kernel body would.
func (k *cachingKernel) Invoke(stack *Stack, cache Cache) error {
	c := cache.(*convCache)
	c.invocations++
	k.seenCaches = append(k.seenCaches, c)
	other := stack.Pop()
	self := stack.Pop()
	result, err := self.Tensor()
	if err != nil {
		return err
	}
	if _, err := other.Tensor(); err != nil {
		return err
	}
	stack.Push(testTensor{result.DispatchKey()})
	return nil
}

func TestRegistry_RegisterAndDeregister(t *testing.T) {
	registry := NewRegistry()

	table, err := registry.RegisterOperator(addSchema())
	require.NoError(t, err)
	require.NotNil(t, table)

	got, found := registry.Lookup("add")
	require.True(t, found)
	require.Same(t, table, got)

	_, err = registry.RegisterOperator(addSchema())
	var duplicate *DuplicateOperatorError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "add", duplicate.Operator)

	require.NoError(t, registry.DeregisterOperator("add"))
	_, found = registry.Lookup("add")
	assert.False(t, found)

	var missing *MissingOperatorError
	require.ErrorAs(t, registry.DeregisterOperator("add"), &missing)
}

func TestRegistry_RejectsUndispatchableSchema(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.RegisterOperator(Schema{
		Name: "manual_seed",
		Args: []Arg{{Name: "seed", Kind: KindOther}},
	})
	var noDispatch *NoDispatchableArgumentError
	require.ErrorAs(t, err, &noDispatch)

	// A failed registration leaves no table behind.
	_, found := registry.Lookup("manual_seed")
	assert.False(t, found)
}

func TestRegistry_CallInvokesKernel(t *testing.T) {
	registry := NewRegistry()
	table, err := registry.RegisterOperator(addSchema())
	require.NoError(t, err)

	kernel := &cachingKernel{}
	require.NoError(t, table.RegisterKernel(backends.CPU, KernelEntry{Kernel: kernel}))

	stack := stackOf(testTensor{backends.CPU}, testTensor{backends.CPU})
	require.NoError(t, registry.Call("add", stack))
	require.Equal(t, 1, stack.Len(), "kernel pops its arguments and pushes one result")

	stack = stackOf(testTensor{backends.CPU}, testTensor{backends.CPU})
	require.NoError(t, registry.Call("add", stack))

	// Each Call is its own lookup context: the kernel must have received a
	// fresh cache instance every time.
	require.Len(t, kernel.seenCaches, 2)
	assert.NotSame(t, kernel.seenCaches[0], kernel.seenCaches[1])
	assert.Equal(t, 1, kernel.seenCaches[0].invocations)
	assert.Equal(t, 1, kernel.seenCaches[1].invocations)

	// Unknown operator and unsupported backend surface their own errors.
	var missingOp *MissingOperatorError
	require.ErrorAs(t, registry.Call("mul", stack), &missingOp)

	cudaStack := stackOf(testTensor{cudaKey}, testTensor{cudaKey})
	var missingKernel *MissingKernelError
	require.ErrorAs(t, registry.Call("add", cudaStack), &missingKernel)
}
