package generator

import "crypto/sha1"

const digestSize = sha1.Size

// sha1PRNG reproduces the SHA1PRNG byte stream and the int/double
// derivations the historical grader drew its test cases from. Seed
// compatibility depends on every draw going through here in the same order.
type sha1PRNG struct {
	state     []byte
	remainder []byte
	remCount  int
}

func newSHA1PRNG(seed int64) *sha1PRNG {
	// The seed is hashed as 8 little-endian bytes.
	var raw [8]byte
	v := seed
	for i := range raw {
		raw[i] = byte(v)
		v >>= 8
	}
	sum := sha1.Sum(raw[:])
	return &sha1PRNG{state: sum[:]}
}

func (p *sha1PRNG) nextBytes(out []byte) {
	index := 0
	output := p.remainder

	if r := p.remCount; r > 0 {
		todo := min(len(out)-index, digestSize-r)
		for i := 0; i < todo; i++ {
			out[i] = output[r]
			output[r] = 0
			r++
		}
		p.remCount += todo
		index += todo
	}

	for index < len(out) {
		sum := sha1.Sum(p.state)
		output = sum[:]
		updateState(p.state, output)

		todo := min(len(out)-index, digestSize)
		for i := 0; i < todo; i++ {
			out[index] = output[i]
			index++
			output[i] = 0
		}
		p.remCount += todo
	}

	p.remainder = output
	p.remCount %= digestSize
}

// updateState adds output+1 into state as signed bytes with carry, and nudges
// state[0] if nothing changed.
func updateState(state, output []byte) {
	last := 1
	changed := false
	for i := range state {
		v := int(int8(state[i])) + int(int8(output[i])) + last
		t := byte(v)
		changed = changed || state[i] != t
		state[i] = t
		last = v >> 8
	}
	if !changed {
		state[0]++
	}
}

func (p *sha1PRNG) next(bits int) int32 {
	numBytes := (bits + 7) / 8
	buf := make([]byte, numBytes)
	p.nextBytes(buf)
	var acc uint32
	for _, b := range buf {
		acc = acc<<8 + uint32(b)
	}
	return int32(acc >> uint(numBytes*8-bits))
}

// nextInt returns a uniform value in [0, bound). bound must be positive.
func (p *sha1PRNG) nextInt(bound int32) int32 {
	r := p.next(31)
	m := bound - 1
	if bound&m == 0 {
		return int32((int64(bound) * int64(r)) >> 31)
	}
	for u := r; ; u = p.next(31) {
		r = u % bound
		if u-r+m >= 0 {
			return r
		}
	}
}

// nextDouble returns a uniform value in [0, 1) with 53 bits of precision.
func (p *sha1PRNG) nextDouble() float64 {
	hi := int64(p.next(26))
	lo := int64(p.next(27))
	return float64(hi<<27+lo) * (1.0 / (1 << 53))
}

// intRange returns a uniform value in [lo, hi].
func (p *sha1PRNG) intRange(lo, hi int) int {
	return int(p.nextInt(int32(hi-lo+1))) + lo
}
