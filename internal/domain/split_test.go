package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoBundles(t *testing.T) {
	t.Run("guards the state machine", func(t *testing.T) {
		wo := trimmedOrder(t)
		err := wo.SplitIntoBundles(twoBundleSplit(), testGrades(), "frank")
		assert.True(t, IsStateConflict(err))
	})

	t.Run("rejects a non-positive slab count", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.TotalSlabCount = 0
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects a non-positive thickness", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Thickness = 0
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects a sequence number beyond the declared slab count", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.TotalSlabCount = 3
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects bundle count mismatch", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.TotalBundleCount = 3
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects non-contiguous bundle numbers", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Bundles[1].BundleNo = 3
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects slab numbering gaps across bundles", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		// 1,2 then 4,5: slab 3 is missing from the submission.
		cmd.Bundles[1].Slabs[0].SequenceNumber = 4
		cmd.Bundles[1].Slabs[1].SequenceNumber = 5
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects unknown grade", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Bundles[0].GradeID = "grade-z"
		assert.True(t, IsNotFound(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects discarded slab without a reason", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Bundles[0].Slabs[1].Discarded = true
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects deduction at least as large as the dimension", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Bundles[0].Slabs[0].DeductedLength = 2.0
		assert.True(t, IsValidation(wo.SplitIntoBundles(cmd, testGrades(), "frank")))
	})

	t.Run("rejects a block that was already split", func(t *testing.T) {
		wo := splitOrder(t)
		wo.ManufacturingState = StateSawingDataSubmitted
		err := wo.SplitIntoBundles(twoBundleSplit(), testGrades(), "frank")
		assert.True(t, IsStateConflict(err))
	})

	t.Run("materializes bundles and slabs", func(t *testing.T) {
		wo := sawnOrder(t)
		require.NoError(t, wo.SplitIntoBundles(twoBundleSplit(), testGrades(), "frank"))

		assert.Equal(t, StateSawed, wo.ManufacturingState)
		assert.Equal(t, "frank", wo.SawingQE)
		blk := wo.Block
		assert.Equal(t, 4, blk.TotalSlabCount)
		require.Len(t, blk.Bundles, 2)

		for _, sb := range blk.Bundles {
			assert.Equal(t, StateSawed, sb.ManufacturingState)
			assert.Equal(t, MaterialStatusManufacturing, sb.Status)
			assert.Equal(t, SlabTypeRaw, sb.Type)
			assert.Equal(t, "B801", sb.BlockNumber)
			assert.Equal(t, 2, sb.TotalBundleCount)
			// Bundles carry the sales category, not the block's.
			assert.Equal(t, "cat-cross", sb.CategoryID)
			assert.Equal(t, "grade-a", sb.GradeID)
			assert.InDelta(t, 0.018, sb.Thickness, 1e-9)
			assert.InDelta(t, 4.0, sb.Area, 1e-9)
			for _, s := range sb.Slabs {
				assert.Equal(t, "cat-cross", s.CategoryID)
				assert.Equal(t, StateSawed, s.ManufacturingState)
				assert.NotEmpty(t, s.ID)
			}
		}

		require.NotNil(t, wo.AreaAfterSawing)
		assert.InDelta(t, 8.0, *wo.AreaAfterSawing, 1e-9)
		// 8.0 over the trimmed volume 1.458, rounded to three decimals.
		require.NotNil(t, wo.RawSlabOutturnPercentage)
		assert.InDelta(t, 5.487, *wo.RawSlabOutturnPercentage, 1e-9)
	})

	t.Run("discarded slabs count against nothing", func(t *testing.T) {
		wo := sawnOrder(t)
		cmd := twoBundleSplit()
		cmd.Bundles[0].Slabs[1].Discarded = true
		cmd.Bundles[0].Slabs[1].DiscardedReason = "shattered on the saw"
		require.NoError(t, wo.SplitIntoBundles(cmd, testGrades(), "frank"))

		sb := wo.Block.Bundles[0]
		assert.Equal(t, 1, sb.TotalSlabCount)
		assert.InDelta(t, 2.0, sb.Area, 1e-9)
		assert.InDelta(t, 6.0, *wo.AreaAfterSawing, 1e-9)
	})

	t.Run("skip filling jumps usable slabs to filled", func(t *testing.T) {
		wo := sawnOrder(t)
		wo.SkipFilling = true
		cmd := twoBundleSplit()
		cmd.Bundles[0].Slabs[0].Discarded = true
		cmd.Bundles[0].Slabs[0].DiscardedReason = "broke during handling"
		require.NoError(t, wo.SplitIntoBundles(cmd, testGrades(), "frank"))

		assert.Equal(t, StateFilled, wo.ManufacturingState)
		sb := wo.Block.Bundles[0]
		assert.Equal(t, StateFilled, sb.ManufacturingState)
		assert.Equal(t, StateSawed, sb.Slabs[0].ManufacturingState)
		assert.Equal(t, StateFilled, sb.Slabs[1].ManufacturingState)
	})
}
