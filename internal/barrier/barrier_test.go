/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package barrier_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eilecollage/collage/internal/barrier"
	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/wire"
)

var _ = Describe("Barrier", func() {
	var (
		local wire.NodeID
		b     *barrier.Barrier
	)

	BeforeEach(func() {
		local = wire.GenerateID()
		b = barrier.New(wire.GenerateID(), local, logging.Noop())
		b.BindMaster(nil)
	})

	It("releases the local caller once height arrivals are recorded", func() {
		b.SetHeight(3)

		var wg sync.WaitGroup
		wg.Add(1)
		var localErr error
		go func() {
			defer wg.Done()
			localErr = b.Enter(2 * time.Second)
		}()

		// Two remote participants arrive, staggered, exercising the
		// first-arrival bookkeeping path as well as the completion path.
		time.Sleep(5 * time.Millisecond)
		b.Arrive(wire.GenerateID(), b.Version(), 0, 2*time.Second)
		time.Sleep(5 * time.Millisecond)
		b.Arrive(wire.GenerateID(), b.Version(), 0, 2*time.Second)

		wg.Wait()
		Expect(localErr).NotTo(HaveOccurred())
	})

	It("times out a round that never reaches height", func() {
		b.SetHeight(2)
		err := b.Enter(50 * time.Millisecond)
		Expect(err).To(HaveOccurred())
	})

	It("recovers after a timed-out round once the missing arrivals land", func() {
		b.SetHeight(2)

		// First attempt times out: only the local arrival has shown up,
		// one short of height.
		Expect(b.Enter(30 * time.Millisecond)).To(HaveOccurred())

		// A second, independent Enter call re-records the same local
		// arrival (a no-op, already present) while a remote node's
		// Arrive completes the round; both must be released.
		var wg sync.WaitGroup
		wg.Add(1)
		var err1 error
		go func() {
			defer wg.Done()
			err1 = b.Enter(2 * time.Second)
		}()
		time.Sleep(10 * time.Millisecond)
		b.Arrive(wire.GenerateID(), b.Version(), 0, 2*time.Second)
		wg.Wait()
		Expect(err1).NotTo(HaveOccurred())
	})

	It("increases height for late-joining participants", func() {
		b.SetHeight(1)
		Expect(b.Height()).To(Equal(uint32(1)))
		Expect(b.Increase()).To(Equal(uint32(2)))
	})

	It("replies immediately to a straggler whose incarnation is newer than the open round, without joining it", func() {
		var mu sync.Mutex
		var replied []wire.NodeID
		b.BindMaster(func(to wire.NodeID, _ wire.Version) error {
			mu.Lock()
			replied = append(replied, to)
			mu.Unlock()
			return nil
		})
		b.SetHeight(2)

		remote := wire.GenerateID()
		b.Arrive(remote, b.Version(), 0, 100*time.Millisecond)
		Expect(b.PendingRounds()).To(Equal(1))

		// The same node arrives again under a newer incarnation, as if it
		// had already moved past whatever round the master is tracking.
		b.Arrive(remote, b.Version(), 1, 100*time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		Expect(replied).To(ConsistOf(remote))
		// The round never reached height: the newer-incarnation arrival
		// was answered directly and did not count toward it.
		Expect(b.PendingRounds()).To(Equal(1))
	})

	It("discards a round when a straggler arrives with an older incarnation and starts a fresh one", func() {
		var mu sync.Mutex
		var replied []wire.NodeID
		b.BindMaster(func(to wire.NodeID, _ wire.Version) error {
			mu.Lock()
			replied = append(replied, to)
			mu.Unlock()
			return nil
		})
		b.SetHeight(2)

		stale := wire.GenerateID()
		fresh1 := wire.GenerateID()
		fresh2 := wire.GenerateID()

		b.Arrive(stale, b.Version(), 5, 100*time.Millisecond)
		Expect(b.PendingRounds()).To(Equal(1))

		// An older incarnation for the same version discards the round
		// the newer incarnation opened and starts over under its own
		// incarnation.
		b.Arrive(fresh1, b.Version(), 2, 100*time.Millisecond)
		Expect(b.PendingRounds()).To(Equal(1))

		b.Arrive(fresh2, b.Version(), 2, 100*time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		Expect(replied).To(ConsistOf(fresh1, fresh2))
		Expect(b.PendingRounds()).To(Equal(0))
	})
})
