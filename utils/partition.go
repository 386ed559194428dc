package utils

// PartitionMap splits a contiguous index range (cells, faces) into
// ParallelDegree near-equal buckets for worker goroutines. Cell contributions
// are independent, so workers accumulate locally and merge under one writer.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	if ParallelDegree > maxIndex && maxIndex > 0 {
		ParallelDegree = maxIndex
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		Npart = pm.MaxIndex / pm.ParallelDegree
		rem   = pm.MaxIndex % pm.ParallelDegree
	)
	// The first rem buckets carry one extra index
	add := threadNum
	if threadNum > rem {
		add = rem
	}
	bucket[0] = threadNum*Npart + add
	bucket[1] = bucket[0] + Npart
	if threadNum < rem {
		bucket[1]++
	}
	return
}

func (pm *PartitionMap) GetBucketRange(threadNum int) (min, max int) {
	min, max = pm.Partitions[threadNum][0], pm.Partitions[threadNum][1]
	return
}
