package fat

import (
	"fmt"

	"github.com/rstms/dfat"
)

// Format writes an empty dFAT volume named label onto device: the label
// block, a table with every other block free, and an empty root directory.
// Any previous content of the addressable blocks is lost.
func Format(device dfat.BlockDevice, label string) error {
	blockSize := device.BlockSize()
	fat, err := NewFAT(blockSize, device.BlockCount())
	if err != nil {
		return fmt.Errorf("formatting: %w", err)
	}

	raw := make([]byte, blockSize)
	if err := EncodeLabel(label, raw); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}
	if err := device.WriteBlock(int(dfat.LabelBlock), raw); err != nil {
		return fmt.Errorf("formatting: writing label: %w", err)
	}

	if err := fat.Flush(device); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}

	if err := EncodeDirectory(nil, raw); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}
	if err := device.WriteBlock(int(dfat.RootBlock), raw); err != nil {
		return fmt.Errorf("formatting: writing root directory: %w", err)
	}
	return nil
}
