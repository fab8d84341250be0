package engine

// core runs one block through the cipher: a whitening XOR with the first four
// schedule words, r table rounds and a final S-box round.
//
// Output word p combines byte 0 of word p, byte 1 of word p+1, byte 2 of word
// p+2 and byte 3 of word p+3 (mod 4). That rotation is ShiftRows; the tables
// fold in SubBytes and MixColumns.
func core(k Words, s []byte, t *[4]Words, r int, x0, x1, x2, x3 uint32) (uint32, uint32, uint32, uint32) {
	t0, t1, t2, t3 := t[0], t[1], t[2], t[3]

	x0 ^= k.At(0)
	x1 ^= k.At(1)
	x2 ^= k.At(2)
	x3 ^= k.At(3)

	i := 4
	for ; i <= r<<2; i += 4 {
		y0 := t0.At(int(x0>>24)) ^ t1.At(int(x1>>16&0xff)) ^ t2.At(int(x2>>8&0xff)) ^ t3.At(int(x3&0xff)) ^ k.At(i)
		y1 := t0.At(int(x1>>24)) ^ t1.At(int(x2>>16&0xff)) ^ t2.At(int(x3>>8&0xff)) ^ t3.At(int(x0&0xff)) ^ k.At(i+1)
		y2 := t0.At(int(x2>>24)) ^ t1.At(int(x3>>16&0xff)) ^ t2.At(int(x0>>8&0xff)) ^ t3.At(int(x1&0xff)) ^ k.At(i+2)
		y3 := t0.At(int(x3>>24)) ^ t1.At(int(x0>>16&0xff)) ^ t2.At(int(x1>>8&0xff)) ^ t3.At(int(x2&0xff)) ^ k.At(i+3)
		x0, x1, x2, x3 = y0, y1, y2, y3
	}

	y0 := uint32(s[x0>>24])<<24 ^ uint32(s[x1>>16&0xff])<<16 ^ uint32(s[x2>>8&0xff])<<8 ^ uint32(s[x3&0xff]) ^ k.At(i)
	y1 := uint32(s[x1>>24])<<24 ^ uint32(s[x2>>16&0xff])<<16 ^ uint32(s[x3>>8&0xff])<<8 ^ uint32(s[x0&0xff]) ^ k.At(i+1)
	y2 := uint32(s[x2>>24])<<24 ^ uint32(s[x3>>16&0xff])<<16 ^ uint32(s[x0>>8&0xff])<<8 ^ uint32(s[x1&0xff]) ^ k.At(i+2)
	y3 := uint32(s[x3>>24])<<24 ^ uint32(s[x0>>16&0xff])<<16 ^ uint32(s[x1>>8&0xff])<<8 ^ uint32(s[x2&0xff]) ^ k.At(i+3)

	return y0, y1, y2, y3
}

// encrypt runs x forward through r inner rounds.
func (e *Engine) encrypt(r int, x [4]uint32) [4]uint32 {
	y0, y1, y2, y3 := core(e.encKeys, e.sbox, &e.enc, r, x[0], x[1], x[2], x[3])
	return [4]uint32{y0, y1, y2, y3}
}

// decrypt runs x backward. InvShiftRows rotates the other way, so words 1 and
// 3 are swapped going in and coming out of the shared round routine.
func (e *Engine) decrypt(r int, x [4]uint32) [4]uint32 {
	y0, y1, y2, y3 := core(e.decKeys, e.invSBox, &e.dec, r, x[0], x[3], x[2], x[1])
	return [4]uint32{y0, y3, y2, y1}
}
