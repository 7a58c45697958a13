package media

import "errors"

// ErrMismatch is returned by narrowing accessors when the requested variant
// does not match the element's actual variant.
var ErrMismatch = errors.New("media: element variant mismatch")

type elementKind uint8

const (
	kindGroup elementKind = iota
	kindFriend
	kindFlash
)

// Element is the closed variant over the three image-carrying message
// element shapes. The uniform accessors never fail; the As*/Into*
// narrowings fail with [ErrMismatch] when the variant does not match.
//
// The zero Element is a group image with zero metadata; construct elements
// through [GroupElement], [FriendElement], or [FlashElement].
type Element struct {
	kind   elementKind
	group  GroupImage
	friend FriendImage
	flash  FlashImage
}

// GroupElement wraps a plain group image.
func GroupElement(img GroupImage) Element {
	return Element{kind: kindGroup, group: img}
}

// FriendElement wraps a plain friend image.
func FriendElement(img FriendImage) Element {
	return Element{kind: kindFriend, friend: img}
}

// FlashElement wraps a flash image.
func FlashElement(img FlashImage) Element {
	return Element{kind: kindFlash, flash: img}
}

// Width returns the image width in pixels, regardless of variant.
func (e Element) Width() uint32 {
	switch e.kind {
	case kindGroup:
		return e.group.Width
	case kindFriend:
		return e.friend.Width
	default:
		return e.flash.width()
	}
}

// Height returns the image height in pixels, regardless of variant.
func (e Element) Height() uint32 {
	switch e.kind {
	case kindGroup:
		return e.group.Height
	case kindFriend:
		return e.friend.Height
	default:
		return e.flash.height()
	}
}

// Size returns the image byte size, regardless of variant.
func (e Element) Size() uint32 {
	switch e.kind {
	case kindGroup:
		return e.group.Size
	case kindFriend:
		return e.friend.Size
	default:
		return e.flash.size()
	}
}

// URL returns the download URL, regardless of variant.
func (e Element) URL() string {
	switch e.kind {
	case kindGroup:
		return e.group.URL
	case kindFriend:
		return e.friend.URL
	default:
		return e.flash.url()
	}
}

// MD5 returns the content fingerprint, regardless of variant.
func (e Element) MD5() [16]byte {
	switch e.kind {
	case kindGroup:
		return e.group.MD5
	case kindFriend:
		return e.friend.MD5
	default:
		return e.flash.md5()
	}
}

// IsFlash reports whether the element is a flash image.
func (e Element) IsFlash() bool {
	return e.kind == kindFlash
}

// IsGroup reports whether the element carries a group-scoped image,
// including a flash image wrapping one.
func (e Element) IsGroup() bool {
	switch e.kind {
	case kindGroup:
		return true
	case kindFlash:
		return e.flash.IsGroup()
	default:
		return false
	}
}

// IsFriend reports whether the element carries a friend-scoped image,
// including a flash image wrapping one.
func (e Element) IsFriend() bool {
	switch e.kind {
	case kindFriend:
		return true
	case kindFlash:
		return e.flash.IsFriend()
	default:
		return false
	}
}

// AsFlash returns a pointer to the flash image, or [ErrMismatch] for
// non-flash variants.
func (e *Element) AsFlash() (*FlashImage, error) {
	if e.kind != kindFlash {
		return nil, ErrMismatch
	}
	return &e.flash, nil
}

// IntoFlash returns a copy of the flash image, or [ErrMismatch] for
// non-flash variants.
func (e Element) IntoFlash() (FlashImage, error) {
	if e.kind != kindFlash {
		return FlashImage{}, ErrMismatch
	}
	return e.flash, nil
}

// AsGroup returns a pointer to the group image, unwrapping a flash image
// when it carries one. Friend-backed elements return [ErrMismatch].
func (e *Element) AsGroup() (*GroupImage, error) {
	switch e.kind {
	case kindGroup:
		return &e.group, nil
	case kindFlash:
		if e.flash.group != nil {
			return e.flash.group, nil
		}
		return nil, ErrMismatch
	default:
		return nil, ErrMismatch
	}
}

// IntoGroup returns a copy of the group image, unwrapping a flash image
// when it carries one. Friend-backed elements return [ErrMismatch].
func (e Element) IntoGroup() (GroupImage, error) {
	img, err := e.AsGroup()
	if err != nil {
		return GroupImage{}, err
	}
	return *img, nil
}

// AsFriend returns a pointer to the friend image, unwrapping a flash image
// when it carries one. Group-backed elements return [ErrMismatch].
func (e *Element) AsFriend() (*FriendImage, error) {
	switch e.kind {
	case kindFriend:
		return &e.friend, nil
	case kindFlash:
		if e.flash.friend != nil {
			return e.flash.friend, nil
		}
		return nil, ErrMismatch
	default:
		return nil, ErrMismatch
	}
}

// IntoFriend returns a copy of the friend image, unwrapping a flash image
// when it carries one. Group-backed elements return [ErrMismatch].
func (e Element) IntoFriend() (FriendImage, error) {
	img, err := e.AsFriend()
	if err != nil {
		return FriendImage{}, err
	}
	return *img, nil
}
