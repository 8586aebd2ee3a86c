package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisKey(t *testing.T) {
	req := require.New(t)
	req.Equal("tokenInfo:ELF", RedisKey(PfxTokenInfo, "ELF"))
	req.Equal("a-b-c", CustomKey("-", "a", "b", "c"))
}

func TestGetPrefix(t *testing.T) {
	req := require.New(t)
	req.Equal("", GetPrefix("plain"))
	req.Equal("tokenInfo", GetPrefix("tokenInfo:ELF"))
	req.Equal("marketEvents:listing", GetPrefix("marketEvents:listing:ABC-1"))
}
