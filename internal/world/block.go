package world

// BlockType is the one-byte id stored per voxel.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeStone
	BlockTypeDirt
	BlockTypeGrass
	BlockTypeSnow

	// BlockTypeCount is the number of known block types, Air included.
	BlockTypeCount
)

// Face identifies one of the six axis-aligned faces of a voxel.
type Face int

const (
	FacePosX Face = iota
	FacePosY
	FacePosZ
	FaceNegX
	FaceNegY
	FaceNegZ
)

var faceNormals = [...]BlockCoord{
	FacePosX: {1, 0, 0},
	FacePosY: {0, 1, 0},
	FacePosZ: {0, 0, 1},
	FaceNegX: {-1, 0, 0},
	FaceNegY: {0, -1, 0},
	FaceNegZ: {0, 0, -1},
}

// Normal returns the outward unit offset of the face.
func (f Face) Normal() BlockCoord {
	if f < FacePosX || f > FaceNegZ {
		return BlockCoord{}
	}
	return faceNormals[f]
}

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FacePosY:
		return "+Y"
	case FacePosZ:
		return "+Z"
	case FaceNegX:
		return "-X"
	case FaceNegY:
		return "-Y"
	case FaceNegZ:
		return "-Z"
	default:
		return "?"
	}
}
