package adpcm

const (
	// HEVAGMaxCoef is the highest valid predictor index.
	HEVAGMaxCoef = 127
	// HEVAGMaxShift is the highest valid shift factor.
	HEVAGMaxShift = 12
	// hevagDefaultShift replaces out of range shift factors.
	hevagDefaultShift = 9
	// hevagMuteFlag and above zero the whole frame.
	hevagMuteFlag = 0x07
)

// hevagCoefs are the order-4 predictor coefficients, .13 fixed point, newest
// history sample first.
var hevagCoefs = [HEVAGMaxCoef + 1][MaxHistory]int32{
	{0, 0, 0, 0},
	{7680, 0, 0, 0},
	{14720, -6656, 0, 0},
	{12544, -7040, 0, 0},
	{15616, -7680, 0, 0},
	{14731, -7059, 0, 0},
	{14507, -7366, 0, 0},
	{13920, -7522, 0, 0},
	{13133, -7680, 0, 0},
	{12028, -7680, 0, 0},
	{10764, -7680, 0, 0},
	{9359, -7680, 0, 0},
	{7832, -7680, 0, 0},
	{6201, -7680, 0, 0},
	{4488, -7680, 0, 0},
	{2717, -7680, 0, 0},
	{910, -7680, 0, 0},
	{-910, -7680, 0, 0},
	{-2717, -7680, 0, 0},
	{-4488, -7680, 0, 0},
	{-6201, -7680, 0, 0},
	{-7832, -7680, 0, 0},
	{-9359, -7680, 0, 0},
	{-10764, -7680, 0, 0},
	{-12028, -7680, 0, 0},
	{-13133, -7680, 0, 0},
	{-13920, -7522, 0, 0},
	{-14507, -7366, 0, 0},
	{-14731, -7059, 0, 0},
	{5376, -9216, 3328, -3072},
	{-6400, -7168, -3328, -2304},
	{-10496, -7424, -3584, -1024},
	{-167, -2722, -494, -541},
	{-7430, -2221, -2298, 424},
	{-8001, -3166, -2814, 289},
	{6018, -4750, 2649, -1298},
	{3798, -6946, 3875, -1216},
	{-8237, -2596, -2071, 227},
	{9199, 1982, -1382, -2316},
	{13021, -3044, -3792, 1267},
	{13112, -4487, -2250, 1665},
	{-1668, -3744, -6456, 840},
	{7819, -4328, 2111, -506},
	{9571, -1336, -757, 487},
	{10032, -2562, 300, 199},
	{-4745, -4122, -5486, -1493},
	{-5896, 2378, -4787, -6947},
	{-1193, -9117, -1237, -3114},
	{2783, -7108, -1575, -1447},
	{-7334, -2062, -2212, 446},
	{6127, -2577, -315, -18},
	{9457, -1858, 102, 258},
	{7876, -4483, 2126, -538},
	{-7172, -1795, -2069, 482},
	{-7358, -2102, -2233, 440},
	{-9170, -3509, -2674, -391},
	{-2638, -2647, -1929, -1637},
	{1873, 9183, 1860, -5746},
	{9214, 1859, -1124, -2427},
	{13204, -3012, -4139, 1370},
	{12437, -4792, -256, 622},
	{-2653, -1144, -3182, -6878},
	{9331, -1048, -828, 507},
	{1642, -620, -946, -4229},
	{4246, -7585, -533, -2259},
	{-8988, -3891, -2807, 44},
	{-2562, -2735, -1730, -1899},
	{3182, -483, -714, -1421},
	{7937, -3844, 2821, -1019},
	{10069, -2609, 314, 195},
	{8400, -3297, 1551, -155},
	{-8529, -2775, -2432, -336},
	{9477, -1882, 108, 256},
	{75, -2241, -298, -6937},
	{-9143, -4160, -2963, 5},
	{-7270, -1958, -2156, 460},
	{-2740, 3745, 5936, -1089},
	{8993, 1948, -683, -2704},
	{13101, -2835, -3854, 1055},
	{9543, -1961, 130, 250},
	{5272, -4270, 3124, -3157},
	{-7696, -3383, -2907, -456},
	{7309, 2523, 434, -2461},
	{10275, -2867, 391, 172},
	{10940, -3721, 665, 97},
	{24, -310, -1262, 320},
	{-8122, -2411, -2311, -271},
	{-8511, -3067, -2337, 163},
	{326, -3846, 419, -933},
	{8895, 2194, -541, -2880},
	{12073, -1876, -2017, -601},
	{8729, -3423, 1674, -169},
	{12950, -3847, -3007, 1946},
	{10038, -2570, 302, 198},
	{9385, -2757, 1008, 41},
	{-4720, -5006, -2852, -1161},
	{7869, -4326, 2135, -501},
	{2450, -8597, 1299, -2780},
	{10192, -2763, 360, 181},
	{11313, -4213, 833, 53},
	{10154, -2716, 345, 185},
	{9638, -1417, -737, 482},
	{3854, -4554, 2843, -3397},
	{6699, -5659, 2249, -1074},
	{11082, -3908, 728, 80},
	{-1026, -9810, -805, -3462},
	{10396, -3746, 1367, -96},
	{10287, 988, -1915, -1437},
	{7953, 3878, -764, -3263},
	{12689, -3375, -3354, 2079},
	{6641, 3166, 231, -2089},
	{-2348, -7354, -1944, -4122},
	{9290, -4039, 1885, -246},
	{4633, -6403, 1748, -1619},
	{11247, -4125, 802, 61},
	{9807, -2284, 219, 222},
	{9736, -1536, -706, 473},
	{8440, -3436, 1562, -176},
	{9307, -1021, -835, 509},
	{1698, -9025, 688, -3037},
	{10214, -2791, 368, 179},
	{8390, 3248, -758, -2989},
	{7201, 3316, 46, -2614},
	{-88, -7809, -538, -4571},
	{6193, -5189, 2760, -1245},
	{12325, -1290, -3284, 253},
	{13064, -4075, -2824, 1877},
	{5333, 2999, 775, -1132},
}

// hevagHeader holds the frame parameters of one HEVAG frame.
type hevagHeader struct {
	coef  int
	shift uint
	flag  int
}

// parseHEVAGHeader reads the 2-byte frame header. The predictor index is
// split over both bytes: low nibble bits from byte 0, high bits from byte 1.
func parseHEVAGHeader(b0, b1 byte) hevagHeader {
	return hevagHeader{
		coef:  int(b0>>4) | int(b1&0xf0),
		shift: uint(b0 & 0x0f),
		flag:  int(b1 & 0x0f),
	}
}

// sanitize applies the fallbacks for corrupt headers and reports whether any
// field was out of range.
func (h *hevagHeader) sanitize() bool {
	bad := false
	if h.coef > HEVAGMaxCoef {
		h.coef = HEVAGMaxCoef
		bad = true
	}
	if h.shift > HEVAGMaxShift {
		h.shift = hevagDefaultShift
		bad = true
	}
	return bad
}

// predict runs one step of the order-4 predictor.
func (h hevagHeader) predict(hist *[MaxHistory]int32, nibble int32) int32 {
	c := &hevagCoefs[h.coef]
	sample := (hist[0]*c[0] + hist[1]*c[1] + hist[2]*c[2] + hist[3]*c[3]) / 32
	return (sample + nibble<<(20-h.shift) + 128) >> 8
}

// DecodeHEVAG decodes samplesToDo samples of a HEVAG channel starting at the
// absolute sample firstSample. Frame parameters are read from each frame
// touched; history carries over from ch. Nothing is decoded when
// channelSpacing is below 1.
func DecodeHEVAG(ch *Channel, out []int16, channelSpacing, firstSample, samplesToDo int) {
	if channelSpacing <= 0 {
		return
	}
	layout := HEVAG.Layout(1)
	hist := ch.History

	var frame [hevagFrameSize]byte
	var hdr hevagHeader
	count := 0

	for i := firstSample; i < firstSample+samplesToDo; i++ {
		pos := layout.Locate(i, 0)
		if i == firstSample || pos.Sample == 0 {
			frameOffset := ch.Offset + pos.HeaderOffset
			ch.readAt(frame[:], frameOffset)

			hdr = parseHEVAGHeader(frame[0], frame[1])
			if hdr.sanitize() {
				ch.warnOnce("hevag: incorrect coefs/shift", "offset", frameOffset, "coef", hdr.coef, "shift", hdr.shift)
			}
		}

		var sample int32
		if hdr.flag < hevagMuteFlag {
			nibble := signedNibble(frame[pos.ByteOffset-pos.HeaderOffset], pos.Shift)
			sample = hdr.predict(&hist, nibble)
		}

		out[count] = int16(sample)
		count += channelSpacing

		hist[3] = hist[2]
		hist[2] = hist[1]
		hist[1] = hist[0]
		hist[0] = sample
	}

	ch.History = hist
}
