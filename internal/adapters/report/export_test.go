// export_test.go exports private functions for white-box testing.
package report

var SkipText = skipText
