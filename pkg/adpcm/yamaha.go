package adpcm

// aicaStepScale scales the step size in .8 fixed point, indexed by code.
var aicaStepScale = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	230, 230, 230, 230, 307, 409, 512, 614,
}

// adpcmbStepScale is aicaStepScale in .6 fixed point, as used by ADPCM-B.
var adpcmbStepScale = [16]int32{
	57, 57, 57, 57, 77, 102, 128, 153,
	57, 57, 57, 57, 77, 102, 128, 153,
}

// scaleDelta is IMA's sign*((code&7)*2+1) for every code.
var scaleDelta = [16]int32{
	1, 3, 5, 7, 9, 11, 13, 15,
	-1, -3, -5, -7, -9, -11, -13, -15,
}

// deltaVariant holds what differs between the adaptive delta codecs. The
// expansion itself is shared.
type deltaVariant struct {
	name string
	// damped multiplies history by 254/256 before each sample.
	damped bool
	delta  func(code, step int32) int32
	// rescale returns the next step size before clamping.
	rescale func(code, step int32) int32
}

// mulDelta is the 'mul' IMA delta through the signed table.
func mulDelta(code, step int32) int32 {
	return step * scaleDelta[code] / 8
}

// adpcmbDelta is the Yamaha DELTA-T delta.
func adpcmbDelta(code, step int32) int32 {
	delta := ((code&7)*2 + 1) * step >> 3
	if code&8 != 0 {
		delta = -delta
	}
	return delta
}

var (
	aicaVariant = deltaVariant{
		name:   "aica",
		damped: true,
		delta:  mulDelta,
		rescale: func(code, step int32) int32 {
			return step * aicaStepScale[code] >> 8
		},
	}

	adpcmbVariant = deltaVariant{
		name:  "adpcm-b",
		delta: adpcmbDelta,
		rescale: func(code, step int32) int32 {
			return step * adpcmbStepScale[code] >> 6
		},
	}

	// nxapVariant is noisy against the reference: both the delta and the step
	// update are guesses (step looks like double the usual Yamaha one). Kept
	// as is until a verified decoder turns up.
	nxapVariant = deltaVariant{
		name:  "nxap",
		delta: mulDelta,
		rescale: func(code, step int32) int32 {
			return int32(float64(step*aicaStepScale[code]) / 260.0)
		},
	}
)

// expand decodes one 4-bit code, updating hist and step.
func (v *deltaVariant) expand(code int32, hist, step *int32) int16 {
	code &= 0xf
	if v.damped {
		*hist = *hist * 254 / 256
	}

	sample := clampS16(*hist + v.delta(code, *step))

	*step = clamp(v.rescale(code, *step), StepMin, StepMax)
	*hist = int32(sample)
	return sample
}

// decode is the driver shared by the adaptive delta codecs. Block headers,
// when the layout has them, are read at every block start. Nothing is decoded
// when channelSpacing is below 1.
func (v *deltaVariant) decode(ch *Channel, layout Layout, out []int16, channelSpacing, firstSample, samplesToDo, channel int, clampHeader bool) {
	if channelSpacing <= 0 {
		return
	}
	if !layout.Valid() {
		silence(out, channelSpacing, samplesToDo)
		return
	}

	hist := ch.History[0]
	step := ch.Step
	count := 0

	for i := firstSample; i < firstSample+samplesToDo; i++ {
		pos := layout.Locate(i, channel)
		if pos.HeaderRequired {
			headerOffset := ch.Offset + pos.HeaderOffset
			hist = ch.readS16LE(headerOffset)
			step = ch.readS16LE(headerOffset + 2)
			if clampHeader {
				step = clamp(step, StepMin, StepMax)
			}
		}

		code := int32(ch.readU8(ch.Offset+pos.ByteOffset)>>pos.Shift) & 0xf
		out[count] = v.expand(code, &hist, &step)
		count += channelSpacing
	}

	ch.History[0] = hist
	ch.Step = step
}

// DecodeAICA decodes Yamaha AICA ADPCM. The stream has no headers so history
// and step come from ch; the step is clamped first in case the caller set it
// from outside data. With stereo set both channels share each byte, channel
// 0 in the low nibble.
func DecodeAICA(ch *Channel, out []int16, channelSpacing, firstSample, samplesToDo, channel int, stereo bool) {
	if channelSpacing <= 0 {
		return
	}
	ch.Step = clamp(ch.Step, StepMin, StepMax)

	channels := 1
	if stereo {
		channels = 2
	}
	aicaVariant.decode(ch, AICA.Layout(channels), out, channelSpacing, firstSample, samplesToDo, channel, false)
}

// DecodeAska decodes tri-Ace Aska ADPCM: ADPCM-B over 0x40-byte blocks that
// start with a (history, step) header per channel. channelSpacing is also the
// number of channels in a block.
//
// Header steps are used unclamped. Most files have step 0 in the first block,
// which the first nibble brings back into range.
func DecodeAska(ch *Channel, out []int16, channelSpacing, firstSample, samplesToDo, channel int) {
	adpcmbVariant.decode(ch, ASKA.Layout(channelSpacing), out, channelSpacing, firstSample, samplesToDo, channel, false)
}

// DecodeNXAP decodes NXAP ADPCM: mono 0x40-byte blocks with a 4-byte
// (history, step) header.
func DecodeNXAP(ch *Channel, out []int16, channelSpacing, firstSample, samplesToDo int) {
	nxapVariant.decode(ch, NXAP.Layout(1), out, channelSpacing, firstSample, samplesToDo, 0, true)
}
