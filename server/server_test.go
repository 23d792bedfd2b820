/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package server_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/staticd/config"
	"github.com/nabbar/staticd/server"
)

var _ = Describe("server.New", func() {
	var cfg config.Config

	BeforeEach(func() {
		cfg = config.Default()
		cfg.DocRoot = GinkgoT().TempDir()
		cfg.BindPort = 0
	})

	It("rejects a configuration that fails validation", func() {
		cfg.DocRoot = ""

		_, err := server.New(cfg, nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unparseable session timeout", func() {
		cfg.SessionTimeout = "not-a-duration"

		_, err := server.New(cfg, nil)
		Expect(err).To(HaveOccurred())
	})

	It("builds successfully from a valid, well-formed config", func() {
		srv, err := server.New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv).NotTo(BeNil())
	})
})
