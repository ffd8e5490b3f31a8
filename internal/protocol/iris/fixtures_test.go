package iris

// realCapture 实测遥控器输出（地址 0xF9CB，POWER，POOL），连续 4 次发送的原始时长
var realCapture = []int32{
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -312, 105, -104, 210, -104, 315, -104, 105, -104,
	105, -208, 525, -208, 315, -208, 105, -104, 210, -1144, 105, -312, 105, -728, 105, -208, 105, -104, 105, -208,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -312, 105, -104, 210, -104, 315, -104, 105, -104,
	105, -208, 525, -208, 315, -208, 105, -104, 210, -1144, 105, -312, 105, -728, 105, -208, 105, -104, 105, -208,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -312, 105, -104, 210, -104, 315, -104, 105, -104,
	105, -208, 525, -208, 315, -208, 105, -104, 210, -1144, 105, -312, 105, -728, 105, -208, 105, -104, 105, -208,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -104,
	105, -104, 105, -104, 105, -104, 105, -104, 105, -104, 105, -312, 105, -104, 210, -104, 315, -104, 105, -104,
	105, -208, 525, -208, 315, -208, 105, -104, 210, -1144, 105, -312, 105, -728, 105, -208, 105, -104, 105, -208,
}
