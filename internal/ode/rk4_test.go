package ode_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odekit/internal/ode"
)

func growth(t, y float64) float64 { return y }
func decay(t, y float64) float64  { return -y }

var _ = Describe("RK4", func() {
	Describe("accuracy", func() {
		It("matches e after integrating y'=y over [0, 1]", func() {
			traj, err := ode.Integrate(growth, 0, 1, 1, 0.1)
			Expect(err).NotTo(HaveOccurred())

			t, y := traj.Final()
			Expect(t).To(Equal(1.0))
			Expect(y).To(BeNumerically("~", math.E, 1e-4))
		})

		It("matches e^-0.5 after integrating y'=-y over [0, 0.5]", func() {
			traj, err := ode.Integrate(decay, 0, 0.5, 1, 0.1)
			Expect(err).NotTo(HaveOccurred())

			t, y := traj.Final()
			Expect(t).To(Equal(0.5))
			Expect(y).To(BeNumerically("~", math.Exp(-0.5), 1e-5))
		})

		It("reproduces a constant derivative exactly", func() {
			const c = 2.0
			t0, y0 := 0.5, -1.0
			traj, err := ode.Integrate(func(t, y float64) float64 { return c }, t0, 3, y0, 0.25)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < traj.Len(); i++ {
				t, y := traj.At(i)
				Expect(y).To(BeNumerically("~", y0+c*(t-t0), 1e-12))
			}
		})

		It("tracks the fixed-step grid when the endpoint is not clamped", func() {
			integ := ode.NewRK4(ode.WithEndpoint(ode.EndpointFixed))
			traj, err := integ.Integrate(decay, 0, 0.5, 1, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(5))

			t, y := traj.Final()
			Expect(t).To(BeNumerically("~", 0.4, 1e-12))
			Expect(y).To(BeNumerically("~", math.Exp(-0.4), 1e-6))
		})
	})

	DescribeTable("step count equals ceil((tmax-t0)/h)",
		func(t0, tmax, h float64) {
			want := int(math.Ceil((tmax - t0) / h))
			for _, policy := range []ode.EndpointPolicy{ode.EndpointClamp, ode.EndpointFixed} {
				traj, err := ode.NewRK4(ode.WithEndpoint(policy)).Integrate(decay, t0, tmax, 1, h)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Len()).To(Equal(want))
				Expect(traj.Times).To(HaveLen(want))
				Expect(traj.Values).To(HaveLen(want))
				Expect(traj.Count).To(Equal(want))
			}
		},
		Entry("exact multiple", 0.0, 1.0, 0.1),
		Entry("remainder", 0.0, 1.05, 0.1),
		Entry("negative start", -2.0, 1.0, 0.3),
		Entry("large step", 0.0, 1.0, 0.7),
		Entry("span shorter than step", 0.0, 0.05, 0.1),
		Entry("fine step", 1.0, 3.0, 1e-3),
	)

	Describe("time grid", func() {
		It("starts at t0 and advances by h", func() {
			h := 0.3
			traj, err := ode.NewRK4(ode.WithEndpoint(ode.EndpointFixed)).Integrate(growth, -2, 1, 1, h)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Times[0]).To(Equal(-2.0))

			for i := 1; i < traj.Len(); i++ {
				Expect(traj.Times[i] - traj.Times[i-1]).To(BeNumerically("~", h, 1e-12))
			}
		})

		It("stretches only the last step when clamping", func() {
			h := 0.3
			traj, err := ode.Integrate(growth, -2, 1, 1, h)
			Expect(err).NotTo(HaveOccurred())

			n := traj.Len()
			for i := 1; i < n-1; i++ {
				Expect(traj.Times[i] - traj.Times[i-1]).To(BeNumerically("~", h, 1e-12))
			}
			last := traj.Times[n-1] - traj.Times[n-2]
			Expect(last).To(BeNumerically(">", h-1e-12))
			Expect(last).To(BeNumerically("<=", 2*h+1e-12))
			Expect(traj.Times[n-1]).To(Equal(1.0))
		})

		It("takes a double-length last step when h divides the span", func() {
			h := 0.1
			traj, err := ode.Integrate(growth, 0, 1, 1, h)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(10))

			n := traj.Len()
			for i := 1; i < n-1; i++ {
				Expect(traj.Times[i] - traj.Times[i-1]).To(BeNumerically("~", h, 1e-12))
			}
			Expect(traj.Times[n-1] - traj.Times[n-2]).To(BeNumerically("~", 2*h, 1e-12))
			Expect(traj.Times[n-1]).To(Equal(1.0))
		})

		It("returns the initial point alone when the span fits in one step", func() {
			traj, err := ode.Integrate(growth, 0, 0.05, 3, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(1))

			t, y := traj.Final()
			Expect(t).To(Equal(0.0))
			Expect(y).To(Equal(3.0))
			Expect(traj.Evaluations).To(BeZero())
		})
	})

	Describe("invalid input", func() {
		var calls int
		counting := func(t, y float64) float64 {
			calls++
			return y
		}

		BeforeEach(func() { calls = 0 })

		DescribeTable("fails before evaluating f",
			func(t0, tmax, h float64, want error) {
				traj, err := ode.Integrate(counting, t0, tmax, 1, h)
				Expect(err).To(MatchError(want))
				Expect(traj).To(BeNil())
				Expect(calls).To(BeZero())
			},
			Entry("zero step", 0.0, 1.0, 0.0, ode.ErrInvalidStep),
			Entry("negative step", 0.0, 1.0, -1.0, ode.ErrInvalidStep),
			Entry("NaN step", 0.0, 1.0, math.NaN(), ode.ErrInvalidStep),
			Entry("infinite step", 0.0, 1.0, math.Inf(1), ode.ErrInvalidStep),
			Entry("empty span", 1.0, 1.0, 0.1, ode.ErrInvalidRange),
			Entry("reversed span", 2.0, 1.0, 0.1, ode.ErrInvalidRange),
			Entry("NaN bound", math.NaN(), 1.0, 0.1, ode.ErrInvalidRange),
			Entry("infinite bound", 0.0, math.Inf(1), 0.1, ode.ErrInvalidRange),
			Entry("too many points", 0.0, 1.0, 1e-300, ode.ErrAllocation),
		)

		It("honours a custom point cap", func() {
			integ := ode.NewRK4(ode.WithMaxPoints(10))
			_, err := integ.Integrate(counting, 0, 2, 1, 0.1)
			Expect(err).To(MatchError(ode.ErrAllocation))

			var inputErr *ode.InputError
			Expect(err).To(BeAssignableToTypeOf(inputErr))
			Expect(err.Error()).To(ContainSubstring("20 points"))
		})

		It("rejects a nil derivative", func() {
			_, err := ode.Integrate(nil, 0, 1, 1, 0.1)
			Expect(err).To(MatchError(ode.ErrNilDerivative))
		})
	})

	Describe("evaluation budget", func() {
		It("calls f four times per step", func() {
			calls := 0
			traj, err := ode.Integrate(func(t, y float64) float64 {
				calls++
				return -y
			}, 0, 2, 1, 0.15)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(4 * (traj.Len() - 1)))
			Expect(traj.Evaluations).To(Equal(calls))
		})
	})

	Describe("non-finite values", func() {
		It("propagates NaN without failing", func() {
			traj, err := ode.Integrate(func(t, y float64) float64 { return math.NaN() }, 0, 1, 1, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.IsFinite()).To(BeFalse())
		})
	})

	Describe("determinism and reentrancy", func() {
		It("produces bit-identical output for identical input", func() {
			a, err := ode.Integrate(growth, 0, 3, 1, 1e-3)
			Expect(err).NotTo(HaveOccurred())
			b, err := ode.Integrate(growth, 0, 3, 1, 1e-3)
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Times).To(Equal(a.Times))
			Expect(b.Values).To(Equal(a.Values))
		})

		It("gives concurrent callers independent trajectories", func() {
			integ := ode.NewRK4()
			want, err := integ.Integrate(decay, 0, 1, 1, 0.01)
			Expect(err).NotTo(HaveOccurred())

			const workers = 16
			got := make([]*ode.Trajectory, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(idx int) {
					defer GinkgoRecover()
					defer wg.Done()
					tr, err := integ.Integrate(decay, 0, 1, 1, 0.01)
					Expect(err).NotTo(HaveOccurred())
					got[idx] = tr
				}(i)
			}
			wg.Wait()

			for _, tr := range got {
				Expect(tr.Values).To(Equal(want.Values))
				Expect(&tr.Values[0]).NotTo(BeIdenticalTo(&want.Values[0]))
			}
		})
	})

	Describe("ParseEndpoint", func() {
		It("accepts known names", func() {
			p, err := ode.ParseEndpoint("fixed")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(ode.EndpointFixed))

			p, err = ode.ParseEndpoint("")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(ode.EndpointClamp))
			Expect(p.String()).To(Equal("clamp"))
		})

		It("rejects unknown names", func() {
			_, err := ode.ParseEndpoint("shrink")
			Expect(err).To(HaveOccurred())
		})
	})
})
