package effect

import "math"

const fftSize = 1024

// fft performs an in-place radix-2 Cooley-Tukey FFT. len(re) and len(im)
// must be equal and a power of 2.
func fft(re, im []float64) {
	n := len(re)
	if n <= 1 {
		return
	}

	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := -2 * math.Pi / float64(size)
		for i := 0; i < n; i += size {
			for k := range half {
				wr, wi := math.Cos(step*float64(k)), math.Sin(step*float64(k))
				a, b := i+k, i+k+half
				tr := wr*re[b] - wi*im[b]
				ti := wr*im[b] + wi*re[b]
				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}
}

// bands turns mono samples into log-spaced magnitude bands.
type bands struct {
	n      int
	re, im []float64
	mags   []float64
}

func newBands(n int) *bands {
	return &bands{
		n:    n,
		re:   make([]float64, fftSize),
		im:   make([]float64, fftSize),
		mags: make([]float64, n),
	}
}

// process windows the newest fftSize samples (zero-padded when fewer are
// available) and returns band magnitudes scaled to [0,1] against the
// loudest band. The slice is reused by the next call.
func (b *bands) process(samples []float64) []float64 {
	if len(samples) > fftSize {
		samples = samples[len(samples)-fftSize:]
	}
	for i := range fftSize {
		v := 0.0
		if i < len(samples) {
			v = samples[i]
		}
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
		b.re[i] = v * w
		b.im[i] = 0
	}

	fft(b.re, b.im)

	maxBin := fftSize / 2
	peak := 0.01
	for band := range b.n {
		lo := int(math.Pow(float64(maxBin), float64(band)/float64(b.n)))
		hi := int(math.Pow(float64(maxBin), float64(band+1)/float64(b.n)))
		lo = max(lo, 1)
		if hi <= lo {
			hi = lo + 1
		}
		hi = min(hi, maxBin)

		sum, count := 0.0, 0
		for i := lo; i < hi; i++ {
			sum += math.Hypot(b.re[i], b.im[i])
			count++
		}
		b.mags[band] = 0
		if count > 0 {
			b.mags[band] = sum / float64(count)
		}
		peak = max(peak, b.mags[band])
	}
	for i := range b.mags {
		b.mags[i] /= peak
	}
	return b.mags
}

// energy is the RMS level of samples, 0 for none.
func energy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
