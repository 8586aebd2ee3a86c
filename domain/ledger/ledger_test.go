package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectionSymbol(t *testing.T) {
	req := require.New(t)
	req.Equal("ABC-0", CollectionSymbol("ABC-1"))
	req.Equal("ABC-0", CollectionSymbol("ABC-0"))
	req.Equal("A-B-0", CollectionSymbol("A-B-12"))
	req.Equal("ELF", CollectionSymbol("ELF"))
}
