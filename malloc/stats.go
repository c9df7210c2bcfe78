package malloc

// averageInt64 tracks mean, minimum and maximum over int64 samples,
// used for allocation request sizes.
type averageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	init   bool
}

func (av *averageInt64) add(sample int64) {
	av.n++
	av.sum += sample
	if av.init == false || sample < av.minval {
		av.minval, av.init = sample, true
	}
	if av.maxval < sample {
		av.maxval = sample
	}
}

func (av *averageInt64) samples() int64 {
	return av.n
}

func (av *averageInt64) min() int64 {
	return av.minval
}

func (av *averageInt64) max() int64 {
	return av.maxval
}

func (av *averageInt64) mean() int64 {
	if av.n == 0 {
		return 0
	}
	return int64(float64(av.sum) / float64(av.n))
}
