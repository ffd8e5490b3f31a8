package iris

// Checksum 计算 Iris 校验和
// 算法：先对 data 做完整整数累加（中途不取模），再整体取负并截断为 8 位。
// data 为帧的 [4..10] 字节（载荷起始 + 地址 + 保留 + 指令 + 区域）
// 编码与解码必须共用此函数，否则与真实设备的计算顺序不一致
func Checksum(data []byte) byte {
	var sum uint
	for _, b := range data {
		sum += uint(b)
	}
	return byte(-sum)
}

// VerifyChecksum 重新计算 frame[4..10] 的校验和并与 frame[11] 比较
func VerifyChecksum(frame Frame) bool {
	return Checksum(frame[checksumStart:checksumEnd]) == frame[checksumPos]
}
