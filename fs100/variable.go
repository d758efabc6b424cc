package fs100

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/vars"
)

// variableAccess returns the attribute and service for singular access to a
// variable kind. Position kinds transfer all attributes at once.
func variableAccess(kind vars.Kind, write bool) (attr, service byte) {
	if kind.IsPosition() {
		if write {
			return 0, serviceSetAll
		}

		return 0, serviceGetAll
	}

	if write {
		return 1, serviceSetSingle
	}

	return 1, serviceGetSingle
}

func (c *Client) validateVarIndex(kind vars.Kind, index uint16) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: variable kind 0x%x", hse.ErrInvalidArgument, uint16(kind))
	}

	if maxIndex, ok := c.cfg.varRanges[kind]; ok && index > maxIndex {
		return fmt.Errorf("%w: %s variable index %d exceeds maximum %d",
			hse.ErrInvalidArgument, kind, index, maxIndex)
	}

	return nil
}

// ReadVariable reads one variable of the given kind.
func (c *Client) ReadVariable(ctx context.Context, kind vars.Kind, index uint16) (vars.Value, error) {
	if err := c.validateVarIndex(kind, index); err != nil {
		return nil, err
	}

	attr, service := variableAccess(kind, false)
	req := newRobotRequest(uint16(kind), index, attr, service, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	value, err := vars.Decode(kind, ans.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s variable %d: %w", kind, index, err)
	}

	return value, nil
}

// WriteVariable writes one variable. The target kind and wire width are
// implied by the value's type; an index outside the kind's addressable
// range fails before any network I/O.
func (c *Client) WriteVariable(ctx context.Context, index uint16, value vars.Value) error {
	if value == nil {
		return fmt.Errorf("%w: nil variable value", hse.ErrInvalidArgument)
	}

	kind := value.Kind()
	if err := c.validateVarIndex(kind, index); err != nil {
		return err
	}

	attr, service := variableAccess(kind, true)
	req := newRobotRequest(uint16(kind), index, attr, service, value.Encode())
	_, err := c.command(ctx, req, false)

	return err
}

// ReadVariables reads count consecutive variables of the given kind starting
// at index first, using one plural exchange.
//
// Plural access covers the scalar kinds only; strings and positions must be
// read one at a time.
func (c *Client) ReadVariables(ctx context.Context, kind vars.Kind, first uint16, count int) ([]vars.Value, error) {
	if kind == vars.KindString || kind.IsPosition() {
		return nil, fmt.Errorf("%w: plural access not available for %s variables", hse.ErrInvalidArgument, kind)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: variable count %d", hse.ErrInvalidArgument, count)
	}
	if err := c.validateVarIndex(kind, first); err != nil {
		return nil, err
	}
	last := int(first) + count - 1
	if last > 0xffff {
		return nil, fmt.Errorf("%w: variable range end %d", hse.ErrInvalidArgument, last)
	}
	if err := c.validateVarIndex(kind, uint16(last)); err != nil { //nolint:gosec
		return nil, err
	}

	stride := kind.Size()

	// the plural commands require a multiple of two for 1-byte kinds
	wireCount := count
	if stride == 1 && wireCount%2 == 1 {
		wireCount++
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(wireCount)) //nolint:gosec

	req := newRobotRequest(kind.PluralCommand(), first, 0, serviceReadPlural, data)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	// the reply repeats the count word, then the values follow back to back
	if len(ans.Data) < 4+count*stride {
		return nil, fmt.Errorf("%w: plural reply carries %d bytes for %d %s variables",
			hse.ErrMalformedPacket, len(ans.Data), count, kind)
	}

	values := make([]vars.Value, count)
	for i := range values {
		start := 4 + i*stride
		values[i], err = vars.Decode(kind, ans.Data[start:start+stride])
		if err != nil {
			return nil, fmt.Errorf("decode %s variable %d: %w", kind, int(first)+i, err)
		}
	}

	return values, nil
}
