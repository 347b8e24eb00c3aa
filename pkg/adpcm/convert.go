package adpcm

// YamahaSamples returns the samples per channel in a headerless Yamaha
// stream: two nibbles per byte, mono or stereo.
func YamahaSamples(bytes int64, channels int) int64 {
	if channels <= 0 || bytes <= 0 {
		return 0
	}
	return bytes * 2 / int64(channels)
}

// YamahaBytes is the inverse of YamahaSamples, rounded up to whole bytes.
func YamahaBytes(samples int64, channels int) int64 {
	if channels <= 0 || samples <= 0 {
		return 0
	}
	return (samples*int64(channels) + 1) / 2
}

// AskaSamples returns the samples per channel in an Aska stream of 0x40-byte
// blocks. A trailing partial block counts for whatever data follows its
// headers. Blocks whose data does not split evenly between channels leave
// their last nibbles unused.
func AskaSamples(bytes int64, channels int) int64 {
	if channels <= 0 || bytes <= 0 {
		return 0
	}
	header := int64(yamahaHeaderSize * channels)
	if header >= yamahaBlockSize {
		return 0
	}

	blockSamples := (yamahaBlockSize - header) * 2 / int64(channels)
	samples := bytes / yamahaBlockSize * blockSamples
	if rest := bytes % yamahaBlockSize; rest > header {
		samples += (rest - header) * 2 / int64(channels)
	}
	return samples
}

// AskaBytes is the inverse of AskaSamples. A partial last block keeps its
// full headers.
func AskaBytes(samples int64, channels int) int64 {
	if channels <= 0 || samples <= 0 {
		return 0
	}
	header := int64(yamahaHeaderSize * channels)
	if header >= yamahaBlockSize {
		return 0
	}

	blockSamples := (yamahaBlockSize - header) * 2 / int64(channels)
	bytes := samples / blockSamples * yamahaBlockSize
	if rest := samples % blockSamples; rest > 0 {
		bytes += header + (rest*int64(channels)+1)/2
	}
	return bytes
}

// NXAPSamples returns the samples per channel in an NXAP stream, where each
// channel has its own run of 0x40-byte blocks.
func NXAPSamples(bytes int64, channels int) int64 {
	if channels <= 0 || bytes <= 0 {
		return 0
	}
	perChannel := bytes / int64(channels)

	samples := perChannel / yamahaBlockSize * nxapBlockLen
	if rest := perChannel % yamahaBlockSize; rest > yamahaHeaderSize {
		samples += (rest - yamahaHeaderSize) * 2
	}
	return samples
}

// NXAPBytes is the inverse of NXAPSamples.
func NXAPBytes(samples int64, channels int) int64 {
	if channels <= 0 || samples <= 0 {
		return 0
	}

	perChannel := samples / nxapBlockLen * yamahaBlockSize
	if rest := samples % nxapBlockLen; rest > 0 {
		perChannel += yamahaHeaderSize + (rest+1)/2
	}
	return perChannel * int64(channels)
}

// HEVAGSamples returns the samples per channel in whole HEVAG frames.
func HEVAGSamples(bytes int64, channels int) int64 {
	if channels <= 0 || bytes <= 0 {
		return 0
	}
	return bytes / int64(channels) / hevagFrameSize * hevagFrameLen
}

// HEVAGBytes is the inverse of HEVAGSamples, rounded up to whole frames.
func HEVAGBytes(samples int64, channels int) int64 {
	if channels <= 0 || samples <= 0 {
		return 0
	}
	frames := (samples + hevagFrameLen - 1) / hevagFrameLen
	return frames * hevagFrameSize * int64(channels)
}
