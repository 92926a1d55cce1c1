package randomstringgenerator

import (
	"math/rand"
	"sync"
	"time"
)

const leaseTokenLen = 32

type Generator struct {
	chars []rune
	rand  *rand.Rand
	lock  sync.Mutex
}

func NewGenerator() *Generator {
	return &Generator{
		chars: []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateLeaseToken identifies one scheduler instance as a lease owner.
func (g *Generator) GenerateLeaseToken() string {
	return g.generate(leaseTokenLen)
}

func (g *Generator) generate(n int) string {
	g.lock.Lock()
	defer g.lock.Unlock()
	b := make([]rune, n)
	for i := range b {
		b[i] = g.chars[g.rand.Intn(len(g.chars))]
	}
	return string(b)
}
