package payout_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/internal/domain/payout"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateSplit(t *testing.T) {
	Convey("Given reward splits", t, func() {
		So(payout.ValidateSplit(model.Split{5000, 3000, 2000}), ShouldBeNil)
		So(payout.ValidateSplit(model.Split{5000, 3000, 1000}), ShouldBeNil)
		So(payout.ValidateSplit(model.Split{0, 0, 0}), ShouldBeNil)
		So(errors.Is(payout.ValidateSplit(model.Split{6000, 3000, 2000}), model.ErrInvalidSplit), ShouldBeTrue)
		So(errors.Is(payout.ValidateSplit(model.Split{10001, 0, 0}), model.ErrInvalidArgument), ShouldBeTrue)
	})
}

func TestShare(t *testing.T) {
	Convey("Given a vault total", t, func() {
		Convey("Then shares follow the split", func() {
			shares, err := payout.Shares(1000, model.Split{5000, 3000, 2000})
			So(err, ShouldBeNil)
			So(shares, ShouldResemble, [3]uint64{500, 300, 200})
		})

		Convey("Then shares round down", func() {
			v, err := payout.Share(999, 3333)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 332)
		})

		Convey("Then a large total does not wrap", func() {
			v, err := payout.Share(math.MaxUint64, 5000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint64(math.MaxUint64/2))

			v, err = payout.Share(math.MaxUint64, 10000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint64(math.MaxUint64))
		})

		Convey("Then an out of range weight fails", func() {
			_, err := payout.Share(10, 10001)
			So(errors.Is(err, model.ErrInvalidSplit), ShouldBeTrue)
		})
	})
}
