package tone

// Serial frame layout understood by the buzzer firmware.
const (
	SOF0       = 0xAA
	SOF1       = 0x55
	CmdSetTone = 0x20
)

// EncodeFrame builds the on-wire representation of a tone command:
//
//	[SOF0][SOF1][LEN][CMD][hz_hi][hz_lo][CKS]
//
// LEN counts CMD and the payload; CKS is the XOR of LEN, CMD and the payload.
// A frequency of 0 silences the buzzer.
func EncodeFrame(hz int32) []byte {
	v := uint16(hz)
	payload := []byte{byte(v >> 8), byte(v)}

	length := byte(len(payload) + 1)
	cks := length ^ CmdSetTone
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdSetTone}
	out = append(out, payload...)
	return append(out, cks)
}
