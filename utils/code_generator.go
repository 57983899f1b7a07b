// file: utils/code_generator.go
package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// randomCode 生成指定长度的随机短码
func randomCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(slugCharset[seededRand.Intn(len(slugCharset))])
	}
	return sb.String()
}

// GenerateShareSlug 生成作品分享短链 slug，uuid 段保证全局唯一，短码段方便人读
func GenerateShareSlug() string {
	part := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	return fmt.Sprintf("%s-%s", randomCode(4), part)
}
