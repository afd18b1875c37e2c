package physics

// Layer identifies the collision layer a collider lives on. Layers are in [0, 32).
type Layer uint8

// LayerMask is a bit set of layers.
type LayerMask uint32

// Mask returns a mask containing the given layers.
func Mask(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << (l & 31)
	}
	return m
}

// Contains reports whether the layer is part of the mask.
func (m LayerMask) Contains(l Layer) bool {
	return m&(1<<(l&31)) != 0
}

// AllLayers matches every layer.
const AllLayers = ^LayerMask(0)
