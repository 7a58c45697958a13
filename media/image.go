package media

// GroupImage is an image attachment scoped to a group conversation.
//
// MD5 is the content fingerprint of the original image bytes; callers use
// it for dedup and upload short-circuiting.
type GroupImage struct {
	ImageID string
	Width   uint32
	Height  uint32
	Size    uint32
	URL     string
	MD5     [16]byte
}

// FriendImage is an image attachment scoped to a direct conversation.
type FriendImage struct {
	ImageID string
	Width   uint32
	Height  uint32
	Size    uint32
	URL     string
	MD5     [16]byte
}

// FlashImage is a view-limited image wrapping exactly one of [GroupImage]
// or [FriendImage]. Exactly one of the two pointers is non-nil.
type FlashImage struct {
	group  *GroupImage
	friend *FriendImage
}

// NewGroupFlash wraps a group-scoped image as a flash image.
func NewGroupFlash(img GroupImage) FlashImage {
	return FlashImage{group: &img}
}

// NewFriendFlash wraps a friend-scoped image as a flash image.
func NewFriendFlash(img FriendImage) FlashImage {
	return FlashImage{friend: &img}
}

// IsGroup reports whether the wrapped image is group-scoped.
func (f FlashImage) IsGroup() bool {
	return f.group != nil
}

// IsFriend reports whether the wrapped image is friend-scoped.
func (f FlashImage) IsFriend() bool {
	return f.friend != nil
}

// Group returns the wrapped group image, or [ErrMismatch] when the flash
// image wraps a friend image.
func (f FlashImage) Group() (GroupImage, error) {
	if f.group == nil {
		return GroupImage{}, ErrMismatch
	}
	return *f.group, nil
}

// Friend returns the wrapped friend image, or [ErrMismatch] when the flash
// image wraps a group image.
func (f FlashImage) Friend() (FriendImage, error) {
	if f.friend == nil {
		return FriendImage{}, ErrMismatch
	}
	return *f.friend, nil
}

func (f FlashImage) width() uint32 {
	if f.group != nil {
		return f.group.Width
	}
	return f.friend.Width
}

func (f FlashImage) height() uint32 {
	if f.group != nil {
		return f.group.Height
	}
	return f.friend.Height
}

func (f FlashImage) size() uint32 {
	if f.group != nil {
		return f.group.Size
	}
	return f.friend.Size
}

func (f FlashImage) url() string {
	if f.group != nil {
		return f.group.URL
	}
	return f.friend.URL
}

func (f FlashImage) md5() [16]byte {
	if f.group != nil {
		return f.group.MD5
	}
	return f.friend.MD5
}
