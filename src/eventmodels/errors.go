package eventmodels

import "fmt"

var InsufficientDataErr = fmt.Errorf("not enough overlapping observations")
var DegenerateSpreadErr = fmt.Errorf("spread standard deviation is zero or undefined")
var LengthMismatchErr = fmt.Errorf("price series lengths do not match")
var InvalidParametersErr = fmt.Errorf("invalid strategy parameters")
var NoDataErr = fmt.Errorf("no price data returned")
